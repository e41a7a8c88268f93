// Package config handles configuration loading and validation for docket.
package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Git       GitConfig      `yaml:"git"`
	Server    ServerConfig   `yaml:"server"`
	Templates TemplateConfig `yaml:"templates"`
	DataDir   string         `yaml:"-"` // set by caller, not from config file
}

// GitConfig controls the best-effort staging side channel.
type GitConfig struct {
	// Stage enables staging issue documents after they change.
	Stage bool `yaml:"stage"`
	// Path is the git binary to invoke.
	Path string `yaml:"path"`
	// Patterns are doublestar globs, relative to the data directory,
	// selecting which changed paths get staged.
	Patterns []string `yaml:"patterns"`
}

// ShouldStage reports whether a data-dir-relative path matches the
// configured staging patterns.
func (g GitConfig) ShouldStage(relPath string) bool {
	for _, pattern := range g.Patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// ServerConfig configures the HTTP tool-dispatch server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Token is the bearer token required on dispatch requests. An empty
	// token disables the server rather than running it unauthenticated.
	Token string `yaml:"token"`
}

// TemplateConfig points at optional user-provided template files.
type TemplateConfig struct {
	// Steps is a YAML file overlaying the built-in step templates.
	Steps string `yaml:"steps"`
	// Issue is a Go text/template used by 'docket new' for fresh
	// issue documents. Empty means the built-in document template.
	Issue string `yaml:"issue"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Git: GitConfig{
			Stage:    true,
			Path:     "git",
			Patterns: []string{"open/**", "closed/**", "current"},
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7333",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Git.Path == "" {
		c.Git.Path = defaults.Git.Path
	}
	if c.Git.Patterns == nil {
		c.Git.Patterns = defaults.Git.Patterns
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Git.Path == "" {
		return fmt.Errorf("git.path cannot be empty")
	}

	for _, pattern := range c.Git.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("git.patterns: invalid pattern %q", pattern)
		}
	}

	return nil
}
