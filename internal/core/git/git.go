// Package git provides the version-control staging side channel.
//
// Staging is strictly best-effort: callers invoke it after the durable
// state transition and discard its errors at a single boundary, so nothing
// in this package can affect tracker correctness.
package git

import "context"

// Stager stages issue documents into a surrounding git repository.
type Stager interface {
	// IsRepo reports whether dir is inside a git work tree.
	IsRepo(ctx context.Context, dir string) bool
	// Stage adds the given paths to the index in dir.
	Stage(ctx context.Context, dir string, paths ...string) error
}
