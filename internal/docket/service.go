// Package docket orchestrates the issue lifecycle: resolving the current
// issue, advancing its checklist, and driving the open to closed
// transition.
package docket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/docket/internal/core/issue"
	"github.com/colonyops/docket/internal/core/logging"
	"github.com/colonyops/docket/internal/core/steps"
	"github.com/colonyops/docket/internal/core/task"
)

// NextTask describes the task that became current after a completion,
// with the steps its tags expand to.
type NextTask struct {
	Index int      `json:"index"`
	Text  string   `json:"text"`
	Steps []string `json:"steps,omitempty"`
}

// CompleteResult is the outcome of completing the current task.
type CompleteResult struct {
	Issue         string    `json:"issue"`
	CompletedTask string    `json:"completed_task"`
	Closed        bool      `json:"closed"`
	Next          *NextTask `json:"next,omitempty"`
}

// Preview is a read-only view of the current task, used by 'docket next'
// and the NextTask dispatch operation.
type Preview struct {
	Issue issue.Issue `json:"-"`
	Task  NextTask    `json:"task"`
}

// IssueSummary is the listing row for an open issue.
type IssueSummary struct {
	Number  string `json:"number"`
	Title   string `json:"title"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Current bool   `json:"current"`
}

// TrackerService drives the task lifecycle over the issue store. All
// document state is re-parsed from text on every read; task indices are
// never cached across a mutation.
type TrackerService struct {
	store    issue.Store
	expander *steps.Expander
	staging  *Staging
	log      zerolog.Logger
}

// NewTrackerService creates a new TrackerService. staging may be nil to
// disable the version-control side channel.
func NewTrackerService(store issue.Store, expander *steps.Expander, staging *Staging, log zerolog.Logger) *TrackerService {
	return &TrackerService{
		store:    store,
		expander: expander,
		staging:  staging,
		log:      log.With().Str("cmp", "tracker").Logger(),
	}
}

// CurrentIssue resolves the issue being worked on: the one named by the
// current-issue pointer, or the lowest-numbered open issue when no
// pointer is set. A pointer naming a missing or closed issue is ignored
// with a warning and the default ordering applies.
func (s *TrackerService) CurrentIssue(ctx context.Context) (issue.Issue, error) {
	current, err := s.store.Current(ctx)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("read current pointer: %w", err)
	}

	if current != "" {
		iss, err := s.store.Get(ctx, current)
		switch {
		case err == nil && iss.Status == issue.StatusOpen:
			return iss, nil
		case err != nil && !errors.Is(err, issue.ErrNotFound):
			return issue.Issue{}, err
		default:
			s.log.Warn().Str("issue", current).Msg("current pointer names a missing or closed issue, falling back to oldest open")
		}
	}

	issues, err := s.store.List(ctx)
	if err != nil {
		return issue.Issue{}, err
	}
	if len(issues) == 0 {
		return issue.Issue{}, issue.ErrNoOpenIssues
	}

	return issues[0], nil
}

// CompleteCurrentTask marks the current issue's first incomplete task
// complete, persists the document, and decides whether the issue stays
// open or closes. When the issue stays open the result carries the next
// task with its expanded steps so an agent can continue without another
// prompt; when the last task completes, the issue moves to the closed
// collection and the pointer is cleared if it named this issue.
func (s *TrackerService) CompleteCurrentTask(ctx context.Context) (CompleteResult, error) {
	iss, err := s.CurrentIssue(ctx)
	if err != nil {
		return CompleteResult{}, err
	}
	ctx = logging.WithIssue(ctx, iss.Number)

	tasks := task.Parse(iss.Content)
	current := task.CurrentIndex(tasks)
	if current == -1 {
		return CompleteResult{}, issue.ErrNoTasks
	}

	updated, err := task.SetCompleted(iss.Content, current, true)
	if err != nil {
		return CompleteResult{}, fmt.Errorf("complete task %d: %w", current, err)
	}

	if err := s.store.Save(ctx, iss.Number, updated); err != nil {
		return CompleteResult{}, fmt.Errorf("save issue %s: %w", iss.Number, err)
	}

	result := CompleteResult{
		Issue:         iss.Number,
		CompletedTask: tasks[current].Text,
	}

	// Re-parse the persisted text; indices are derived fresh, never
	// carried across the mutation.
	remaining := task.Parse(updated)
	next := task.CurrentIndex(remaining)

	if next == -1 {
		if err := s.close(ctx, iss.Number); err != nil {
			return CompleteResult{}, err
		}
		result.Closed = true
		s.log.Info().Ctx(ctx).Msg("issue closed")

		s.staging.IssueClosed(ctx, iss.Number)
		return result, nil
	}

	result.Next = &NextTask{
		Index: next,
		Text:  remaining[next].Text,
		Steps: s.expander.Expand(remaining[next]),
	}
	s.log.Info().Ctx(ctx).Int("task", current).Msg("task completed")

	s.staging.IssueSaved(ctx, iss.Number)
	return result, nil
}

// close moves the issue to the closed collection and clears the pointer
// when it names this issue.
func (s *TrackerService) close(ctx context.Context, number string) error {
	if err := s.store.Close(ctx, number); err != nil {
		return fmt.Errorf("close issue %s: %w", number, err)
	}

	current, err := s.store.Current(ctx)
	if err != nil {
		return fmt.Errorf("read current pointer: %w", err)
	}
	if current == number {
		if err := s.store.ClearCurrent(ctx); err != nil {
			return fmt.Errorf("clear current pointer: %w", err)
		}
	}

	return nil
}

// NextTask is a pure preview of the current task and its expanded steps.
// No state changes.
func (s *TrackerService) NextTask(ctx context.Context) (Preview, error) {
	iss, err := s.CurrentIssue(ctx)
	if err != nil {
		return Preview{}, err
	}

	tasks := task.Parse(iss.Content)
	current := task.CurrentIndex(tasks)
	if current == -1 {
		return Preview{}, issue.ErrNoTasks
	}

	return Preview{
		Issue: iss,
		Task: NextTask{
			Index: current,
			Text:  tasks[current].Text,
			Steps: s.expander.Expand(tasks[current]),
		},
	}, nil
}

// ExpandTask exposes step expansion as a pure read query.
func (s *TrackerService) ExpandTask(t task.Task) []string {
	return s.expander.Expand(t)
}

// ListIssues returns listing rows for all open issues, marking the one
// the pointer (or default ordering) resolves to.
func (s *TrackerService) ListIssues(ctx context.Context) ([]IssueSummary, error) {
	issues, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	current := ""
	if iss, err := s.CurrentIssue(ctx); err == nil {
		current = iss.Number
	}

	summaries := make([]IssueSummary, 0, len(issues))
	for _, iss := range issues {
		tasks := task.Parse(iss.Content)
		done := 0
		for _, t := range tasks {
			if t.Completed {
				done++
			}
		}
		summaries = append(summaries, IssueSummary{
			Number:  iss.Number,
			Title:   iss.Title,
			Done:    done,
			Total:   len(tasks),
			Current: iss.Number == current,
		})
	}

	return summaries, nil
}

// GetIssue returns an issue by number, searching open then closed.
func (s *TrackerService) GetIssue(ctx context.Context, number string) (issue.Issue, error) {
	return s.store.Get(ctx, number)
}

// SetCurrent points the tracker at an open issue.
func (s *TrackerService) SetCurrent(ctx context.Context, number string) error {
	iss, err := s.store.Get(ctx, number)
	if err != nil {
		return err
	}
	if iss.Status != issue.StatusOpen {
		return &issue.UsageError{
			Msg:  fmt.Sprintf("issue %s is closed", number),
			Hint: "only open issues can be set current",
		}
	}

	if err := s.store.SetCurrent(ctx, number); err != nil {
		return err
	}

	s.staging.PointerChanged(ctx)
	return nil
}

// ClearCurrent removes the current-issue pointer.
func (s *TrackerService) ClearCurrent(ctx context.Context) error {
	if err := s.store.ClearCurrent(ctx); err != nil {
		return err
	}
	s.staging.PointerChanged(ctx)
	return nil
}

// CreateIssue authors a new open issue from the rendered document and
// returns it. The number is the next unused sequential number.
func (s *TrackerService) CreateIssue(ctx context.Context, content string) (issue.Issue, error) {
	number, err := s.store.NextNumber(ctx)
	if err != nil {
		return issue.Issue{}, err
	}

	if err := s.store.Save(ctx, number, content); err != nil {
		return issue.Issue{}, fmt.Errorf("save issue %s: %w", number, err)
	}

	s.log.Info().Str("issue", number).Msg("issue created")
	s.staging.IssueSaved(ctx, number)

	return issue.Issue{
		Number:  number,
		Title:   issue.TitleOf(content),
		Status:  issue.StatusOpen,
		Content: content,
	}, nil
}
