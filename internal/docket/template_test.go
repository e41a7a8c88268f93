package docket

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/docket/internal/core/issue"
	"github.com/colonyops/docket/internal/core/task"
)

func TestRenderDocument_Default(t *testing.T) {
	doc, err := RenderDocument("", DocumentData{
		Title: "Fix the importer",
		Body:  "It drops rows on empty headers.",
		Tasks: []string{"- [ ] reproduce", "- [ ] +unit-test fix"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Fix the importer", issue.TitleOf(doc))

	tasks := task.Parse(doc)
	require.Len(t, tasks, 2)
	assert.Equal(t, "reproduce", tasks[0].Text)
	assert.Equal(t, "+unit-test fix", tasks[1].Text)
}

func TestRenderDocument_NoTasksGetsPlaceholder(t *testing.T) {
	doc, err := RenderDocument("", DocumentData{Title: "Empty"})
	require.NoError(t, err)

	tasks := task.Parse(doc)
	require.Len(t, tasks, 1, "default template seeds one placeholder task")
	assert.False(t, tasks[0].Completed)
}

func TestRenderDocument_UserTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issue.md.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("# {{ .Title }}\n\n- [ ] start\n"), 0o644))

	doc, err := RenderDocument(path, DocumentData{Title: "Custom"})
	require.NoError(t, err)
	assert.Equal(t, "# Custom\n\n- [ ] start\n", doc)

	_, err = RenderDocument(filepath.Join(dir, "missing.tmpl"), DocumentData{Title: "x"})
	require.Error(t, err)
}
