package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the issue number from context and adds it to log
// events so every line tied to an operation carries the issue it touched.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if number := GetIssue(ctx); number != "" {
		e.Str("issue", number)
	}
}
