package issue

import "errors"

// ErrNotFound is returned when an issue number exists in neither the open
// nor the closed collection.
var ErrNotFound = errors.New("issue not found")

// UsageError is a typed, user-facing failure. It carries a recovery hint
// so the command and API boundaries can tell the caller the exact
// corrective action. Usage errors are surfaced verbatim and never retried.
type UsageError struct {
	Msg  string
	Hint string
}

func (e *UsageError) Error() string { return e.Msg }

// Sentinel usage errors raised by the lifecycle engine.
var (
	// ErrUninitialized is returned when tracker state does not exist yet.
	ErrUninitialized = &UsageError{
		Msg:  "issue tracker is not initialized",
		Hint: "run 'docket init' to create the issue directories",
	}

	// ErrNoOpenIssues is returned when the open collection is empty.
	ErrNoOpenIssues = &UsageError{
		Msg:  "no open issues found",
		Hint: "create one with 'docket new'",
	}

	// ErrNoTasks is returned when an issue has no task to advance: the
	// checklist is empty or every task is already complete.
	ErrNoTasks = &UsageError{
		Msg:  "no incomplete tasks found in the current issue",
		Hint: "add checklist lines like '- [ ] describe the task' to the issue document",
	}
)
