package flagging

import (
	"context"
	"fmt"

	"github.com/flaglog/flaglog/internal/store"
	"github.com/flaglog/flaglog/pkg/envelope"
	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/flaglog/flaglog/pkg/logging"
	"github.com/flaglog/flaglog/pkg/model"
)

// Logger is the default Callback: each flagged sample is appended to a
// headed log file, with optional whole-file encryption and index-addressed
// relabeling of earlier rows.
type Logger struct {
	serializer Serializer
	passphrase string
	filename   string

	cfg   *session
	store *store.Store
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithEncryption stores the log as ciphertext under the given passphrase.
func WithEncryption(passphrase string) LoggerOption {
	return func(l *Logger) { l.passphrase = passphrase }
}

// WithSerializer overrides the sample serializer.
func WithSerializer(s Serializer) LoggerOption {
	return func(l *Logger) { l.serializer = s }
}

// WithLogFilename overrides the log filename.
func WithLogFilename(name string) LoggerOption {
	return func(l *Logger) { l.filename = name }
}

// NewLogger returns an unconfigured Logger; call Setup before Flag.
func NewLogger(opts ...LoggerOption) *Logger {
	l := &Logger{
		serializer: ValueSerializer{},
		filename:   store.DefaultFilename,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Setup binds the component schema and the flagging directory.
func (l *Logger) Setup(components []model.Component, dir string) error {
	if l.cfg != nil {
		return fmt.Errorf("flagging: setup already called")
	}
	cfg, err := newSession(components, dir)
	if err != nil {
		return err
	}

	opts := []store.Option{store.WithFilename(l.filename)}
	if l.passphrase != "" {
		opts = append(opts, store.WithEnvelope(envelope.New(l.passphrase)))
	}
	l.store = store.New(dir, opts...)
	l.cfg = cfg
	return nil
}

// Flag appends one record (creating the header on first use), or relabels
// the row at req.RowIndex when set. Returns the new total row count.
func (l *Logger) Flag(_ context.Context, req Request) (int, error) {
	if l.cfg == nil {
		return 0, errclass.ErrNotInitialized.WithMessage("flag called before setup")
	}

	if req.RowIndex != nil {
		n, err := l.store.UpdateFlag(*req.RowIndex, req.Label)
		if err != nil {
			return 0, err
		}
		logging.Debug("flag relabeled", map[string]any{"row": *req.RowIndex, "label": req.Label, "rows": n})
		return n, nil
	}

	record, err := l.cfg.serializeValues(l.serializer, req.Values)
	if err != nil {
		return 0, err
	}
	record = append(record, req.Label, req.Username, timestamp())

	n, err := l.store.Append(l.header(), record)
	if err != nil {
		return 0, err
	}
	logging.Debug("flag recorded", map[string]any{"rows": n})
	return n, nil
}

func (l *Logger) header() model.Header {
	header := make(model.Header, 0, len(l.cfg.components)+3)
	for i, c := range l.cfg.components {
		header = append(header, c.FieldName(i))
	}
	return append(header, store.FlagField, "username", "timestamp")
}
