package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flaglog/flaglog/internal/rowlog"
	"github.com/flaglog/flaglog/internal/store"
	"github.com/flaglog/flaglog/pkg/envelope"
	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/flaglog/flaglog/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = model.Header{"prompt", "flag", "username", "timestamp"}

func record(cells ...string) model.Record { return model.Record(cells) }

func TestAppend_FirstWriteCreatesHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "flagged")
	s := store.New(dir)

	n, err := s.Append(testHeader, record("hello", "good", "alice", "ts"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	header, rows, err := rowlog.DecodeAll(string(data))
	require.NoError(t, err)
	assert.Equal(t, testHeader, header)
	require.Len(t, rows, 1)
	assert.Equal(t, record("hello", "good", "alice", "ts"), rows[0])
}

func TestAppend_Monotonic(t *testing.T) {
	s := store.New(t.TempDir())
	for i := 1; i <= 5; i++ {
		n, err := s.Append(testHeader, record("v", "", "", ""))
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestAppend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "flagged")
	s := store.New(dir)
	_, err := s.Append(testHeader, record("v", "", "", ""))
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestAppend_SchemaMismatch(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := s.Append(testHeader, record("too", "few"))
	assert.ErrorIs(t, err, errclass.ErrSchema)
}

func TestAppend_MismatchAgainstExistingHeader(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := s.Append(testHeader, record("a", "b", "c", "d"))
	require.NoError(t, err)

	_, err = s.Append(model.Header{"x", "y"}, record("1", "2"))
	assert.ErrorIs(t, err, errclass.ErrSchema)
}

func TestUpdateFlag_ChangesOnlyTargetCell(t *testing.T) {
	s := store.New(t.TempDir())
	for _, v := range []string{"r0", "r1", "r2"} {
		_, err := s.Append(testHeader, record(v, "good", "alice", "ts"))
		require.NoError(t, err)
	}

	n, err := s.UpdateFlag(1, "bad")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	header, rows, err := rowlog.DecodeAll(string(data))
	require.NoError(t, err)
	assert.Equal(t, testHeader, header)
	assert.Equal(t, record("r0", "good", "alice", "ts"), rows[0])
	assert.Equal(t, record("r1", "bad", "alice", "ts"), rows[1])
	assert.Equal(t, record("r2", "good", "alice", "ts"), rows[2])
}

func TestUpdateFlag_FileBytesStableOutsideTarget(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := s.Append(testHeader, record("r0", "good", "alice", "ts"))
	require.NoError(t, err)
	_, err = s.Append(testHeader, record("r1", "good", "alice", "ts"))
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.UpdateFlag(1, "good") // same value: file must be byte-identical
	require.NoError(t, err)
	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateFlag_OutOfRangeLeavesFileUntouched(t *testing.T) {
	s := store.New(t.TempDir())
	for i := 0; i < 3; i++ {
		_, err := s.Append(testHeader, record("v", "good", "", ""))
		require.NoError(t, err)
	}
	before, _ := os.ReadFile(s.Path())

	_, err := s.UpdateFlag(5, "x")
	assert.ErrorIs(t, err, errclass.ErrIndexRange)
	_, err = s.UpdateFlag(-1, "x")
	assert.ErrorIs(t, err, errclass.ErrIndexRange)

	after, _ := os.ReadFile(s.Path())
	assert.Equal(t, before, after)
}

func TestUpdateFlag_MissingFlagColumn(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := s.Append(model.Header{"prompt"}, record("hello"))
	require.NoError(t, err)

	_, err = s.UpdateFlag(0, "bad")
	assert.ErrorIs(t, err, errclass.ErrSchema)
}

func TestUpdateFlag_MissingFile(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := s.UpdateFlag(0, "bad")
	assert.ErrorIs(t, err, errclass.ErrIndexRange)
}

func TestCount_MissingFileIsZero(t *testing.T) {
	s := store.New(t.TempDir())
	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAppend_CorruptExistingFile(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir)
	require.NoError(t, os.WriteFile(s.Path(), []byte("'dangling\n"), 0644))

	_, err := s.Append(testHeader, record("a", "b", "c", "d"))
	assert.ErrorIs(t, err, errclass.ErrCorruptLog)
}

func TestEncrypted_RoundTripMatchesPlain(t *testing.T) {
	plainDir, encDir := t.TempDir(), t.TempDir()
	env := envelope.New("sekrit")

	run := func(s *store.Store) {
		n, err := s.Append(testHeader, record("hello", "good", "alice", "ts"))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		n, err = s.Append(testHeader, record("bye", "bad", "bob", "ts"))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		_, err = s.UpdateFlag(0, "great")
		require.NoError(t, err)
	}
	run(store.New(plainDir))
	run(store.New(encDir, store.WithEnvelope(env)))

	// Re-opening under the same key yields the same logical table.
	reopened := store.New(encDir, store.WithEnvelope(env))
	n, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	plainBytes, err := os.ReadFile(store.New(plainDir).Path())
	require.NoError(t, err)
	encBytes, err := os.ReadFile(reopened.Path())
	require.NoError(t, err)
	assert.NotEqual(t, plainBytes, encBytes)

	decrypted, err := env.Decrypt(encBytes)
	require.NoError(t, err)
	assert.Equal(t, string(plainBytes), string(decrypted))
}

func TestEncrypted_WrongKeyIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, store.WithEnvelope(envelope.New("right")))
	_, err := s.Append(testHeader, record("hello", "good", "alice", "ts"))
	require.NoError(t, err)

	wrong := store.New(dir, store.WithEnvelope(envelope.New("wrong")))
	_, err = wrong.Count()
	assert.ErrorIs(t, err, errclass.ErrCorruptLog)
	_, err = wrong.Append(testHeader, record("x", "y", "z", "w"))
	assert.ErrorIs(t, err, errclass.ErrCorruptLog)
}

func TestEncrypted_PlaintextNeverOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, store.WithEnvelope(envelope.New("sekrit")))
	_, err := s.Append(testHeader, record("very-secret-prompt", "good", "alice", "ts"))
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "very-secret-prompt")
}
