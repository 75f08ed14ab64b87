// Package dataset mirrors a local flag log directory to a remote versioned
// dataset repository: pull-before-write, push-after-write, one commit per
// flag with the row count in the commit message.
package dataset

import "context"

// RepoSpec identifies a remote dataset repository.
type RepoSpec struct {
	Name         string
	Organization string // empty: owned by the token's user
	Private      bool
}

// ID returns the repository identifier, qualified by organization when set.
func (s RepoSpec) ID() string {
	if s.Organization != "" {
		return s.Organization + "/" + s.Name
	}
	return s.Name
}

// Remote is a versioned dataset repository that a local directory can be
// synchronized with.
type Remote interface {
	// EnsureRepo creates the repository if absent and returns its URL.
	EnsureRepo(ctx context.Context) (string, error)
	// Pull fetches the latest remote state, including media content, into
	// localDir.
	Pull(ctx context.Context, localDir string) error
	// Push commits the current state of localDir to the remote.
	Push(ctx context.Context, localDir, message string) error
}
