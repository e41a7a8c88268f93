package docket

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/colonyops/docket/internal/core/config"
	"github.com/colonyops/docket/internal/core/git"
)

// Staging is the single boundary for the best-effort version-control side
// channel. Every method swallows its errors after logging them at debug
// level, so staging is structurally incapable of affecting the primary
// operation's result. A nil *Staging disables the side channel entirely.
type Staging struct {
	stager git.Stager
	cfg    config.GitConfig
	dir    string
	log    zerolog.Logger
}

// NewStaging creates the staging sidecar for the data directory.
func NewStaging(stager git.Stager, cfg config.GitConfig, dataDir string, log zerolog.Logger) *Staging {
	return &Staging{
		stager: stager,
		cfg:    cfg,
		dir:    dataDir,
		log:    log.With().Str("cmp", "staging").Logger(),
	}
}

// IssueSaved stages an open issue's document after a save.
func (s *Staging) IssueSaved(ctx context.Context, number string) {
	s.stage(ctx, "open/"+number+".md")
}

// IssueClosed stages the document move and the pointer file after an
// issue transitions to closed.
func (s *Staging) IssueClosed(ctx context.Context, number string) {
	s.stage(ctx, "open/"+number+".md", "closed/"+number+".md", "current")
}

// PointerChanged stages the current pointer file.
func (s *Staging) PointerChanged(ctx context.Context) {
	s.stage(ctx, "current")
}

// stage filters candidate paths through the configured patterns and adds
// the survivors to the surrounding repository's index, if there is one.
func (s *Staging) stage(ctx context.Context, relPaths ...string) {
	if s == nil || s.stager == nil || !s.cfg.Stage {
		return
	}

	var paths []string
	for _, p := range relPaths {
		if s.cfg.ShouldStage(p) {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}

	if !s.stager.IsRepo(ctx, s.dir) {
		s.log.Debug().Str("dir", s.dir).Msg("data dir is not inside a git repository, skipping staging")
		return
	}

	if err := s.stager.Stage(ctx, s.dir, paths...); err != nil {
		s.log.Debug().Ctx(ctx).Err(err).Strs("paths", paths).Msg("best-effort staging failed")
	}
}
