package config

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/docket/pkg/tmpl"
)

// ValidateDeep performs comprehensive validation including file
// accessibility and executable lookup. The configPath argument specifies
// the config file location to validate (empty string skips that check).
// This calls Validate() first for basic structural validation, then adds
// I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("git.path", c.Git.Path, gitExecutableExists(c.Git.Stage)),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("templates.steps", c.Templates.Steps, isStepsOverlay),
		criterio.Run("templates.issue", c.Templates.Issue, isIssueTemplate),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// gitExecutableExists validates that the git binary is on PATH, but only
// when staging is enabled; a missing binary is irrelevant otherwise.
func gitExecutableExists(staging bool) func(string) error {
	return func(path string) error {
		if !staging || path == "" {
			return nil
		}
		if _, err := exec.LookPath(path); err != nil {
			return fmt.Errorf("executable not found: %s", path)
		}
		return nil
	}
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created by 'docket init'
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isFileOrEmpty validates that an optional template path, when set,
// points at a readable file.
func isFileOrEmpty(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory, not a file")
	}
	return nil
}

// isStepsOverlay validates that an optional step template overlay, when
// set, is a readable YAML file.
func isStepsOverlay(path string) error {
	if err := isFileOrEmpty(path); err != nil || path == "" {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("yaml error: %w", err)
	}
	return nil
}

// isIssueTemplate validates that an optional issue document template,
// when set, is a readable file with parseable template syntax.
func isIssueTemplate(path string) error {
	if err := isFileOrEmpty(path); err != nil || path == "" {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read: %w", err)
	}

	if err := tmpl.Validate(string(raw)); err != nil {
		return fmt.Errorf("template error: %w", err)
	}
	return nil
}
