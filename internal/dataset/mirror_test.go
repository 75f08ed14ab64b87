package dataset_test

import (
	"context"
	"testing"

	"github.com/flaglog/flaglog/internal/dataset"
	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	pulls    int
	pushes   int
	messages []string
	pullErr  error
	pushErr  error
}

func (f *fakeRemote) EnsureRepo(ctx context.Context) (string, error) {
	return "https://hub.test/datasets/user/d", nil
}

func (f *fakeRemote) Pull(ctx context.Context, localDir string) error {
	f.pulls++
	return f.pullErr
}

func (f *fakeRemote) Push(ctx context.Context, localDir, message string) error {
	f.pushes++
	f.messages = append(f.messages, message)
	return f.pushErr
}

func TestOpenMirror_EnsuresAndPulls(t *testing.T) {
	remote := &fakeRemote{}
	m, err := dataset.OpenMirror(context.Background(), remote, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "https://hub.test/datasets/user/d", m.RepoURL)
	assert.Equal(t, 1, remote.pulls)
	assert.Zero(t, remote.pushes)
}

func TestMirror_WriteSequencing(t *testing.T) {
	remote := &fakeRemote{}
	m, err := dataset.OpenMirror(context.Background(), remote, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, m.BeforeWrite(context.Background()))
	require.NoError(t, m.AfterWrite(context.Background(), dataset.CommitMessage(7)))

	assert.Equal(t, 2, remote.pulls) // one at open, one before write
	assert.Equal(t, 1, remote.pushes)
	assert.Equal(t, []string{"Flagged sample #7"}, remote.messages)
}

func TestMirror_PushFailureSurfaces(t *testing.T) {
	remote := &fakeRemote{pushErr: errclass.ErrRemoteSync.WithMessage("push: 502")}
	m, err := dataset.OpenMirror(context.Background(), remote, t.TempDir())
	require.NoError(t, err)

	err = m.AfterWrite(context.Background(), dataset.CommitMessage(1))
	assert.ErrorIs(t, err, errclass.ErrRemoteSync)
}

func TestCommitMessage(t *testing.T) {
	assert.Equal(t, "Flagged sample #42", dataset.CommitMessage(42))
}
