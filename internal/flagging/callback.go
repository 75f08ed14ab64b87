// Package flagging provides the callback contract consumed by a hosting
// application: Setup wires components and a storage directory once, Flag
// records one user action and returns the new total row count.
//
// Three variants implement the contract: SimpleLogger (headerless local
// log), Logger (local log with header, optional encryption, index-addressed
// relabeling) and DatasetSaver (log mirrored to a remote versioned dataset).
package flagging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/flaglog/flaglog/pkg/model"
	"github.com/flaglog/flaglog/pkg/pathutil"
)

// Request carries one flag action.
type Request struct {
	// Values holds one sample per component. Ignored when RowIndex is set.
	Values []any
	// Label is the optional categorical reason.
	Label string
	// RowIndex, when set, relabels an existing row instead of appending.
	RowIndex *int
	// Username is the acting user, if known.
	Username string
}

// Callback is the polymorphic flag-recording entry point.
type Callback interface {
	// Setup binds the field schema and storage location. It must be called
	// exactly once per instance, before any Flag call.
	Setup(components []model.Component, dir string) error
	// Flag records one action and returns the new total data-row count.
	Flag(ctx context.Context, req Request) (int, error)
}

// Serializer persists one sample value and returns a stable reference
// string for its log cell (a scalar's text, or a relative file path).
type Serializer interface {
	SaveFlagged(dir, label string, sample any) (string, error)
}

// ValueSerializer is the default Serializer: scalars become their cell text
// and byte payloads are written under dir/<label>/.
type ValueSerializer struct{}

func (ValueSerializer) SaveFlagged(dir, label string, sample any) (string, error) {
	switch v := sample.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return saveBytes(dir, label, v)
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func saveBytes(dir, label string, data []byte) (string, error) {
	if err := pathutil.ValidateFieldLabel(label); err != nil {
		return "", err
	}
	sub, err := pathutil.SafeJoin(dir, label)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(sub, 0755); err != nil {
		return "", fmt.Errorf("create sample dir: %w", err)
	}
	entries, err := os.ReadDir(sub)
	if err != nil {
		return "", fmt.Errorf("list sample dir: %w", err)
	}
	name := fmt.Sprintf("%d", len(entries))
	if err := os.WriteFile(filepath.Join(sub, name), data, 0644); err != nil {
		return "", fmt.Errorf("write sample: %w", err)
	}
	return filepath.ToSlash(filepath.Join(label, name)), nil
}

// session is the immutable configuration produced by Setup.
type session struct {
	components []model.Component
	dir        string
}

func newSession(components []model.Component, dir string) (*session, error) {
	for _, c := range components {
		if err := pathutil.ValidateFieldLabel(c.Label); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create flagging dir: %w", err)
	}
	cs := make([]model.Component, len(components))
	copy(cs, components)
	return &session{components: cs, dir: dir}, nil
}

// serializeValues turns sample values into log cells, one per component.
// A nil sample becomes an empty cell without touching the serializer.
func (s *session) serializeValues(ser Serializer, values []any) (model.Record, error) {
	if len(values) != len(s.components) {
		return nil, errclass.ErrSchema.WithMessagef("got %d values for %d components", len(values), len(s.components))
	}
	record := make(model.Record, 0, len(values)+3)
	for i, v := range values {
		if v == nil {
			record = append(record, "")
			continue
		}
		cell, err := ser.SaveFlagged(s.dir, s.components[i].FieldName(i), v)
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", s.components[i].FieldName(i), err)
		}
		record = append(record, cell)
	}
	return record, nil
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000000")
}
