package docket

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/docket/internal/core/config"
	"github.com/colonyops/docket/internal/core/git"
	"github.com/colonyops/docket/internal/core/steps"
	"github.com/colonyops/docket/internal/store/markdown"
)

// App is the central entry point for all docket operations. Commands and
// the dispatch server consume App instead of cherry-picking raw
// dependencies.
type App struct {
	Tracker  *TrackerService
	Store    *markdown.Store
	Registry *steps.Registry
	Config   *config.Config
}

// NewApp wires the application from loaded configuration.
func NewApp(cfg *config.Config, stager git.Stager, log zerolog.Logger) (*App, error) {
	registry := steps.DefaultRegistry()
	if cfg.Templates.Steps != "" {
		if err := registry.MergeFile(cfg.Templates.Steps); err != nil {
			return nil, err
		}
	}

	store := markdown.NewStore(cfg.DataDir)
	staging := NewStaging(stager, cfg.Git, cfg.DataDir, log)
	tracker := NewTrackerService(store, steps.NewExpander(registry), staging, log)

	return &App{
		Tracker:  tracker,
		Store:    store,
		Registry: registry,
		Config:   cfg,
	}, nil
}
