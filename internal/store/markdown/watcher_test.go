package markdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_EmitsOnSave(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w, err := NewWatcher(s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, s.Save(ctx, "0001", "# Watched\n\n- [ ] a\n"))

	select {
	case ev := <-w.Events():
		assert.Equal(t, "0001", ev.Number)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
}

func TestWatcher_IgnoresNonIssueFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w, err := NewWatcher(s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// Pointer writes land outside the open collection; nothing to emit.
	require.NoError(t, s.SetCurrent(ctx, "0001"))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for %q", ev.Number)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_RequiresInitializedStore(t *testing.T) {
	s := NewStore(t.TempDir() + "/missing")

	_, err := NewWatcher(s)
	require.Error(t, err)
}
