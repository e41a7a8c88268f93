package docket

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/docket/internal/core/config"
	"github.com/colonyops/docket/internal/core/issue"
	"github.com/colonyops/docket/internal/core/steps"
	"github.com/colonyops/docket/internal/core/task"
	"github.com/colonyops/docket/internal/store/markdown"
)

func newTestTracker(t *testing.T) (*TrackerService, *markdown.Store) {
	t.Helper()

	store := markdown.NewStore(t.TempDir())
	require.NoError(t, store.Init(context.Background()))

	registry := steps.NewRegistry()
	require.NoError(t, registry.Merge([]byte(`tags:
  unit-test:
    - "Write a failing test for {arg}"
    - "Implement {arg}"
    - "Confirm the test passes"
`)))

	svc := NewTrackerService(store, steps.NewExpander(registry), nil, zerolog.Nop())
	return svc, store
}

func TestCompleteCurrentTask_AdvancesToNext(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "# One\n\n- [ ] A\n- [ ] B\n"))

	res, err := svc.CompleteCurrentTask(ctx)
	require.NoError(t, err)

	assert.False(t, res.Closed)
	assert.Equal(t, "0001", res.Issue)
	assert.Equal(t, "A", res.CompletedTask)
	require.NotNil(t, res.Next)
	assert.Equal(t, "B", res.Next.Text)

	got, err := store.Get(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, "# One\n\n- [x] A\n- [ ] B\n", got.Content)
	assert.Equal(t, issue.StatusOpen, got.Status)
}

func TestCompleteCurrentTask_ClosesOnLastTask(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "- [x] A\n- [ ] B\n"))
	require.NoError(t, store.SetCurrent(ctx, "0001"))

	res, err := svc.CompleteCurrentTask(ctx)
	require.NoError(t, err)

	assert.True(t, res.Closed)
	assert.Equal(t, "B", res.CompletedTask)
	assert.Nil(t, res.Next)

	got, err := store.Get(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, issue.StatusClosed, got.Status)
	assert.Equal(t, "- [x] A\n- [x] B\n", got.Content)

	// The pointer named this issue, so closing cleared it.
	current, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestCompleteCurrentTask_PointerNamesOtherIssue(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "- [ ] only task\n"))
	require.NoError(t, store.Save(ctx, "0002", "- [ ] other work\n"))
	require.NoError(t, store.SetCurrent(ctx, "0001"))

	// Closing 0001 clears the pointer because it named 0001.
	res, err := svc.CompleteCurrentTask(ctx)
	require.NoError(t, err)
	require.True(t, res.Closed)

	current, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)

	// With the pointer gone, the oldest open issue is current again.
	iss, err := svc.CurrentIssue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002", iss.Number)
}

func TestCompleteCurrentTask_NoTasks(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "# Prose only, no checklist\n"))

	_, err := svc.CompleteCurrentTask(ctx)
	require.ErrorIs(t, err, issue.ErrNoTasks)

	// Document untouched.
	got, err := store.Get(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, "# Prose only, no checklist\n", got.Content)
}

func TestCompleteCurrentTask_AllTasksAlreadyComplete(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "- [x] done\n"))

	_, err := svc.CompleteCurrentTask(ctx)
	require.ErrorIs(t, err, issue.ErrNoTasks)
}

func TestCompleteCurrentTask_NoOpenIssues(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTracker(t)

	_, err := svc.CompleteCurrentTask(ctx)
	require.ErrorIs(t, err, issue.ErrNoOpenIssues)

	var usage *issue.UsageError
	require.ErrorAs(t, err, &usage)
	assert.NotEmpty(t, usage.Hint)
}

func TestCompleteCurrentTask_Uninitialized(t *testing.T) {
	ctx := context.Background()

	store := markdown.NewStore(t.TempDir() + "/missing")
	svc := NewTrackerService(store, steps.NewExpander(steps.NewRegistry()), nil, zerolog.Nop())

	_, err := svc.CompleteCurrentTask(ctx)
	require.ErrorIs(t, err, issue.ErrUninitialized)
}

func TestCompleteCurrentTask_ExpandsNextTaskSteps(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "- [ ] groundwork\n- [ ] +unit-test Implement parser\n"))

	res, err := svc.CompleteCurrentTask(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, "+unit-test Implement parser", res.Next.Text)
	assert.Equal(t, []string{
		"Write a failing test for {arg}",
		"Implement {arg}",
		"Confirm the test passes",
	}, res.Next.Steps)
}

func TestCompleteCurrentTask_Monotonic(t *testing.T) {
	// Each completion adds exactly one completed index and never
	// un-completes a task.
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "- [ ] a\n- [x] b\n- [ ] c\n- [ ] d\n"))

	completed := func() map[int]bool {
		got, err := store.Get(ctx, "0001")
		require.NoError(t, err)
		set := map[int]bool{}
		for _, tk := range task.Parse(got.Content) {
			if tk.Completed {
				set[tk.Index] = true
			}
		}
		return set
	}

	prev := completed()
	for len(prev) < 4 {
		_, err := svc.CompleteCurrentTask(ctx)
		require.NoError(t, err)

		cur := completed()
		assert.Len(t, cur, len(prev)+1)
		for idx := range prev {
			assert.True(t, cur[idx], "task %d stayed complete", idx)
		}
		prev = cur
	}
}

func TestCurrentIssue_StalePointerFallsBack(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0002", "- [ ] task\n"))
	require.NoError(t, store.SetCurrent(ctx, "0009"))

	iss, err := svc.CurrentIssue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002", iss.Number)
}

func TestNextTask_IsPure(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	doc := "- [ ] +unit-test Implement parser\n- [ ] later\n"
	require.NoError(t, store.Save(ctx, "0001", doc))

	first, err := svc.NextTask(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+unit-test Implement parser", first.Task.Text)
	assert.Len(t, first.Task.Steps, 3)

	second, err := svc.NextTask(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Task, second.Task)

	got, err := store.Get(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, doc, got.Content, "preview never mutates the document")
}

func TestSetCurrent(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "- [ ] a\n"))
	require.NoError(t, store.Save(ctx, "0002", "- [x] b\n"))
	require.NoError(t, store.Close(ctx, "0002"))

	require.NoError(t, svc.SetCurrent(ctx, "0001"))

	t.Run("closed issue is rejected", func(t *testing.T) {
		err := svc.SetCurrent(ctx, "0002")
		var usage *issue.UsageError
		require.ErrorAs(t, err, &usage)
	})

	t.Run("unknown issue is rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.SetCurrent(ctx, "0404"), issue.ErrNotFound)
	})
}

func TestListIssues(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	require.NoError(t, store.Save(ctx, "0001", "# First\n\n- [x] a\n- [ ] b\n"))
	require.NoError(t, store.Save(ctx, "0002", "# Second\n\n- [ ] c\n"))
	require.NoError(t, store.SetCurrent(ctx, "0002"))

	summaries, err := svc.ListIssues(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, IssueSummary{Number: "0001", Title: "First", Done: 1, Total: 2}, summaries[0])
	assert.Equal(t, IssueSummary{Number: "0002", Title: "Second", Done: 0, Total: 1, Current: true}, summaries[1])
}

func TestCreateIssue(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTracker(t)

	doc, err := RenderDocument("", DocumentData{Title: "Ship it", Tasks: []string{"- [ ] write code", "- [ ] test code"}})
	require.NoError(t, err)

	created, err := svc.CreateIssue(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, "0001", created.Number)
	assert.Equal(t, "Ship it", created.Title)

	tasks := task.Parse(created.Content)
	require.Len(t, tasks, 2)

	// Numbers advance even across closures.
	_, err = svc.CompleteCurrentTask(ctx)
	require.NoError(t, err)
	_, err = svc.CompleteCurrentTask(ctx)
	require.NoError(t, err)

	next, err := store.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002", next)
}

// failingStager always errors, proving the side channel cannot affect
// the primary operation.
type failingStager struct{}

func (failingStager) IsRepo(ctx context.Context, dir string) bool { return true }
func (failingStager) Stage(ctx context.Context, dir string, paths ...string) error {
	return errors.New("index.lock held")
}

func TestCompleteCurrentTask_StagingFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()

	store := markdown.NewStore(t.TempDir())
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Save(ctx, "0001", "- [ ] a\n- [ ] b\n"))

	cfg := config.DefaultConfig()
	staging := NewStaging(failingStager{}, cfg.Git, store.Root(), zerolog.Nop())
	svc := NewTrackerService(store, steps.NewExpander(steps.NewRegistry()), staging, zerolog.Nop())

	res, err := svc.CompleteCurrentTask(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", res.CompletedTask)
}
