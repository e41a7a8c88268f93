package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCompleted(t *testing.T) {
	t.Run("completes the targeted task", func(t *testing.T) {
		doc := "- [ ] A\n- [ ] B\n"

		got, err := SetCompleted(doc, 0, true)
		require.NoError(t, err)
		assert.Equal(t, "- [x] A\n- [ ] B\n", got)
	})

	t.Run("uncompletes a completed task", func(t *testing.T) {
		doc := "- [x] A\n"

		got, err := SetCompleted(doc, 0, false)
		require.NoError(t, err)
		assert.Equal(t, "- [ ] A\n", got)
	})

	t.Run("out of range", func(t *testing.T) {
		doc := "- [ ] A\n"

		_, err := SetCompleted(doc, 1, true)
		require.ErrorIs(t, err, ErrOutOfRange)

		_, err = SetCompleted(doc, -1, true)
		require.ErrorIs(t, err, ErrOutOfRange)

		_, err = SetCompleted("no tasks\n", 0, true)
		require.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestSetCompleted_Locality(t *testing.T) {
	doc := `# Issue 12

Intro prose stays put.

- [ ] first   task with  odd spacing
- [ ] +unit-test second task
  - [X] indented third

Trailing prose.
`

	got, err := SetCompleted(doc, 1, true)
	require.NoError(t, err)

	inLines := strings.Split(doc, "\n")
	outLines := strings.Split(got, "\n")
	require.Len(t, outLines, len(inLines))

	var changed []int
	for i := range inLines {
		if inLines[i] != outLines[i] {
			changed = append(changed, i)
		}
	}
	require.Equal(t, []int{5}, changed, "exactly one line changes")
	assert.Equal(t, "- [x] +unit-test second task", outLines[5])
}

func TestSetCompleted_Idempotent(t *testing.T) {
	doc := "- [ ] A\n- [x] B\n"

	once, err := SetCompleted(doc, 0, true)
	require.NoError(t, err)

	twice, err := SetCompleted(once, 0, true)
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	// A task that is already complete round-trips byte-identical.
	same, err := SetCompleted(doc, 1, true)
	require.NoError(t, err)
	assert.Equal(t, doc, same)
}

func TestSetCompleted_PreservesCapitalMarker(t *testing.T) {
	// Re-completing a task written with a capital X must not rewrite it.
	doc := "- [X] done\n- [ ] next\n"

	got, err := SetCompleted(doc, 0, true)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}
