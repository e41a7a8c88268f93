package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/colonyops/docket/internal/core/config"
	"github.com/colonyops/docket/internal/docket"
)

// Flags carries global flag values and the dependencies built by the
// Before hook for all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// App is the docket application wired in the Before hook
	App *docket.App

	// Logger is the root logger built in the Before hook
	Logger zerolog.Logger
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "docket", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "docket")
}

// DefaultLogFile returns the default log file path using the system's
// state directory.
// On macOS: ~/Library/Logs/docket/docket.log
// On Linux: $XDG_STATE_HOME/docket/docket.log (defaults to ~/.local/state/docket/docket.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "docket", "docket.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "docket", "docket.log")
	}

	return filepath.Join(home, ".local", "state", "docket", "docket.log")
}
