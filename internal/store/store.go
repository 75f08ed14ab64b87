// Package store owns the lifecycle of one row-oriented log file:
// create-with-header, append, index-addressed flag rewrite, and row
// counting, with an optional encryption envelope.
//
// A Store is stateless across calls beyond its configuration: every
// operation re-reads the file, so edits made between calls are tolerated.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/flaglog/flaglog/internal/rowlog"
	"github.com/flaglog/flaglog/pkg/envelope"
	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/flaglog/flaglog/pkg/fsutil"
	"github.com/flaglog/flaglog/pkg/model"
)

// DefaultFilename is the log filename used when none is configured.
const DefaultFilename = "log.csv"

// FlagField is the header name of the categorical label column.
const FlagField = "flag"

// Store binds one log file in one directory.
type Store struct {
	dir  string
	name string
	env  envelope.Envelope
}

// Option configures a Store.
type Option func(*Store)

// WithEnvelope makes the on-disk bytes the envelope's ciphertext of the
// encoded table. Every write becomes a whole-file rewrite.
func WithEnvelope(env envelope.Envelope) Option {
	return func(s *Store) { s.env = env }
}

// WithFilename overrides the log filename.
func WithFilename(name string) Option {
	return func(s *Store) { s.name = name }
}

// New returns a Store bound to dir. The directory is created lazily on the
// first append.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, name: DefaultFilename}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, s.name)
}

// Append appends one record, writing the header first iff the log file does
// not exist yet. Returns the total number of data rows after the append.
func (s *Store) Append(header model.Header, record model.Record) (int, error) {
	if len(header) != len(record) {
		return 0, errclass.ErrSchema.WithMessagef("record has %d cells, header has %d", len(record), len(header))
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return 0, fmt.Errorf("create log dir: %w", err)
	}

	existing, rows, exists, err := s.read()
	if err != nil {
		return 0, err
	}
	if !exists {
		if err := s.write(header, []model.Record{record}); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if len(existing) != len(record) {
		return 0, errclass.ErrSchema.WithMessagef("record has %d cells, existing header has %d", len(record), len(existing))
	}

	if s.env != nil {
		// No incremental encrypted append: rewrite one consistent ciphertext.
		rows = append(rows, record)
		if err := s.write(existing, rows); err != nil {
			return 0, err
		}
		return len(rows), nil
	}

	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("open log for append: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(rowlog.EncodeRow(record) + "\n"); err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("sync log: %w", err)
	}
	return len(rows) + 1, nil
}

// UpdateFlag overwrites the flag cell of the row at rowIndex (zero-based,
// data rows only) as one read-decode-mutate-encode-write transaction. The
// file is replaced atomically and left untouched on any failure.
func (s *Store) UpdateFlag(rowIndex int, value string) (int, error) {
	header, rows, exists, err := s.read()
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errclass.ErrIndexRange.WithMessagef("row %d out of range: log does not exist", rowIndex)
	}
	col := slices.Index(header, FlagField)
	if col < 0 {
		return 0, errclass.ErrSchema.WithMessagef("log has no %q column", FlagField)
	}
	if rowIndex < 0 || rowIndex >= len(rows) {
		return 0, errclass.ErrIndexRange.WithMessagef("row %d out of range [0, %d)", rowIndex, len(rows))
	}

	rows[rowIndex][col] = value
	if err := s.write(header, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Count returns the number of data rows, 0 for a missing file.
func (s *Store) Count() (int, error) {
	_, rows, exists, err := s.read()
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	return len(rows), nil
}

// Snapshot returns the decoded header and data rows of the current file.
// Both are nil for a missing file.
func (s *Store) Snapshot() (model.Header, []model.Record, error) {
	header, rows, exists, err := s.read()
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, nil
	}
	return header, rows, nil
}

// Exists reports whether the log file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

func (s *Store) read() (model.Header, []model.Record, bool, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("read log: %w", err)
	}
	if s.env != nil {
		plain, err := s.env.Decrypt(data)
		if err != nil {
			return nil, nil, false, errclass.ErrCorruptLog.WithMessagef("decrypt %s: %v", s.name, err)
		}
		data = plain
	}
	header, rows, err := rowlog.DecodeAll(string(data))
	if err != nil {
		return nil, nil, false, errclass.ErrCorruptLog.WithMessagef("decode %s: %v", s.name, err)
	}
	return header, rows, true, nil
}

func (s *Store) write(header model.Header, rows []model.Record) error {
	data := []byte(rowlog.EncodeAll(header, rows))
	if s.env != nil {
		var err error
		data, err = s.env.Encrypt(data)
		if err != nil {
			return fmt.Errorf("encrypt log: %w", err)
		}
	}
	return fsutil.AtomicWrite(s.Path(), data, 0644)
}
