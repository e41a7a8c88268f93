package logging

import "context"

type contextKey string

const issueKey contextKey = "issue"

// WithIssue tags the context with the issue number being operated on.
func WithIssue(ctx context.Context, number string) context.Context {
	return context.WithValue(ctx, issueKey, number)
}

// GetIssue retrieves the issue number from the context.
// Returns empty string if not present.
func GetIssue(ctx context.Context) string {
	if number, ok := ctx.Value(issueKey).(string); ok {
		return number
	}
	return ""
}
