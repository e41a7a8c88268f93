package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.True(t, cfg.Git.Stage)
	assert.Equal(t, "git", cfg.Git.Path)
	assert.Equal(t, "127.0.0.1:7333", cfg.Server.Addr)
	assert.Empty(t, cfg.Server.Token)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "git", cfg.Git.Path)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
git:
  stage: false
  path: /usr/local/bin/git
server:
  addr: "0.0.0.0:9000"
  token: sekret
`), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.False(t, cfg.Git.Stage)
	assert.Equal(t, "/usr/local/bin/git", cfg.Git.Path)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "sekret", cfg.Server.Token)
	// Unset fields keep their defaults.
	assert.Equal(t, []string{"open/**", "closed/**", "current"}, cfg.Git.Patterns)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{unclosed"), 0o644))

	_, err := Load(path, dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("empty data dir", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid staging pattern", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Git.Patterns = []string{"open/[bad"}
		assert.Error(t, cfg.Validate())
	})
}

func TestGitConfig_ShouldStage(t *testing.T) {
	g := GitConfig{Patterns: []string{"open/**", "current"}}

	assert.True(t, g.ShouldStage("open/0001.md"))
	assert.True(t, g.ShouldStage("current"))
	assert.False(t, g.ShouldStage("closed/0001.md"))
	assert.False(t, g.ShouldStage("notes.txt"))
}

func TestValidateDeep(t *testing.T) {
	t.Run("clean defaults pass", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Git.Stage = false // keep the check independent of git on PATH
		require.NoError(t, cfg.ValidateDeep(""))
	})

	t.Run("data dir is a file", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "data")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		cfg := DefaultConfig()
		cfg.DataDir = file
		cfg.Git.Stage = false
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("missing steps template file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Git.Stage = false
		cfg.Templates.Steps = filepath.Join(cfg.DataDir, "nope.yaml")
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("steps overlay is not yaml", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Git.Stage = false
		cfg.Templates.Steps = filepath.Join(cfg.DataDir, "steps.yaml")
		require.NoError(t, os.WriteFile(cfg.Templates.Steps, []byte("{unclosed"), 0o644))

		err := cfg.ValidateDeep("")

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 1)
		assert.Contains(t, fieldErrs[0].Field, "templates.steps")
		assert.Contains(t, fieldErrs[0].Err.Error(), "yaml error")
	})

	t.Run("issue template with broken syntax", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Git.Stage = false
		cfg.Templates.Issue = filepath.Join(cfg.DataDir, "issue.md.tmpl")
		require.NoError(t, os.WriteFile(cfg.Templates.Issue, []byte("# {{ .Title"), 0o644))

		err := cfg.ValidateDeep("")

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 1)
		assert.Contains(t, fieldErrs[0].Field, "templates.issue")
		assert.Contains(t, fieldErrs[0].Err.Error(), "template error")
	})

	t.Run("valid issue template passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Git.Stage = false
		cfg.Templates.Issue = filepath.Join(cfg.DataDir, "issue.md.tmpl")
		require.NoError(t, os.WriteFile(cfg.Templates.Issue, []byte("# {{ .Title }}\n"), 0o644))

		require.NoError(t, cfg.ValidateDeep(""))
	})
}
