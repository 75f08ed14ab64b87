package flagging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flaglog/flaglog/internal/rowlog"
	"github.com/flaglog/flaglog/internal/store"
	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/flaglog/flaglog/pkg/model"
)

// SimpleLogger is a minimal Callback for illustrative use: each flagged
// sample is appended to a headerless local log. It supports neither
// encryption nor relabeling.
type SimpleLogger struct {
	serializer Serializer
	cfg        *session
}

// NewSimpleLogger returns an unconfigured SimpleLogger.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{serializer: ValueSerializer{}}
}

// Setup binds the component schema and the flagging directory.
func (l *SimpleLogger) Setup(components []model.Component, dir string) error {
	if l.cfg != nil {
		return fmt.Errorf("flagging: setup already called")
	}
	cfg, err := newSession(components, dir)
	if err != nil {
		return err
	}
	l.cfg = cfg
	return nil
}

// Flag appends one record and returns the total data-row count.
func (l *SimpleLogger) Flag(_ context.Context, req Request) (int, error) {
	if l.cfg == nil {
		return 0, errclass.ErrNotInitialized.WithMessage("flag called before setup")
	}
	if req.RowIndex != nil {
		return 0, fmt.Errorf("flagging: simple logger does not support relabeling")
	}

	record, err := l.cfg.serializeValues(l.serializer, req.Values)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(l.cfg.dir, store.DefaultFilename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("open log: %w", err)
	}
	if _, err := f.WriteString(rowlog.EncodeRow(record) + "\n"); err != nil {
		f.Close()
		return 0, fmt.Errorf("append record: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close log: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read log: %w", err)
	}
	rows, err := rowlog.DecodeRows(string(data))
	if err != nil {
		return 0, errclass.ErrCorruptLog.WithMessagef("decode %s: %v", store.DefaultFilename, err)
	}
	return len(rows), nil
}
