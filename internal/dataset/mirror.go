package dataset

import (
	"context"
	"fmt"
	"os"
)

// Mirror is a local clone directory bound to a remote dataset repository.
type Mirror struct {
	Dir     string
	RepoURL string
	remote  Remote
}

// OpenMirror ensures the remote repository exists and binds localDir to it,
// pulling the current remote state.
func OpenMirror(ctx context.Context, remote Remote, dir string) (*Mirror, error) {
	url, err := remote.EnsureRepo(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create mirror dir: %w", err)
	}
	m := &Mirror{Dir: dir, RepoURL: url, remote: remote}
	if err := remote.Pull(ctx, dir); err != nil {
		return nil, err
	}
	return m, nil
}

// BeforeWrite pulls the latest remote state into the mirror. Calling it
// before every local mutation bounds lost-update races between concurrent
// flaggers; last push still wins.
func (m *Mirror) BeforeWrite(ctx context.Context) error {
	return m.remote.Pull(ctx, m.Dir)
}

// AfterWrite pushes the mirror's new state to the remote. On failure the
// uncommitted local write stays on disk for the caller to retry or surface.
func (m *Mirror) AfterWrite(ctx context.Context, message string) error {
	return m.remote.Push(ctx, m.Dir, message)
}

// CommitMessage is the audit-trail message for the Nth flagged sample.
func CommitMessage(rowCount int) string {
	return fmt.Sprintf("Flagged sample #%d", rowCount)
}
