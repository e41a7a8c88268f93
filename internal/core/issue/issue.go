// Package issue defines the issue domain model and the store contract the
// lifecycle engine consumes.
package issue

import (
	"context"
	"fmt"
	"strings"
)

// NumberWidth is the fixed width of zero-padded issue numbers.
const NumberWidth = 4

// Status partitions issues into the two mutually exclusive collections.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Issue is a single tracked unit of work: one document holding a checklist
// of tasks. State lives entirely in the document text and is re-parsed on
// every read.
type Issue struct {
	// Number is the zero-padded sequential identity, unique across the
	// open and closed collections and never reused.
	Number  string
	Title   string
	Status  Status
	Content string
}

// FormatNumber renders a sequential issue number in its canonical
// zero-padded string form.
func FormatNumber(n int) string {
	return fmt.Sprintf("%0*d", NumberWidth, n)
}

// TitleOf derives an issue title from its document: the first markdown
// heading line, or the first non-blank line when no heading exists.
func TitleOf(content string) string {
	fallback := ""
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "#"); ok {
			return strings.TrimSpace(strings.TrimLeft(rest, "#"))
		}
		if fallback == "" {
			fallback = trimmed
		}
	}
	return fallback
}

// Store is the durable collaborator contract. Implementations own the
// storage mechanics; the engine only moves documents between the open and
// closed collections and maintains the current-issue pointer.
type Store interface {
	// List returns all open issues sorted by number ascending.
	List(ctx context.Context) ([]Issue, error)
	// Get returns an issue by number, searching open then closed.
	// Returns ErrNotFound when the number exists in neither collection.
	Get(ctx context.Context, number string) (Issue, error)
	// Save writes an open issue's document as one atomic replace.
	Save(ctx context.Context, number, content string) error
	// Close moves an issue from the open to the closed collection.
	Close(ctx context.Context, number string) error
	// NextNumber returns the next unused sequential number, counting
	// both collections so numbers are never reused.
	NextNumber(ctx context.Context) (string, error)

	// Current returns the current-issue pointer, or "" when unset.
	Current(ctx context.Context) (string, error)
	// SetCurrent points the tracker at an issue number.
	SetCurrent(ctx context.Context, number string) error
	// ClearCurrent removes the pointer.
	ClearCurrent(ctx context.Context) error
}
