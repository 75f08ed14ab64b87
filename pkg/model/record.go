// Package model defines the shared types for the flag log: components,
// headers, records, and the dataset infos document.
package model

import "fmt"

// ComponentKind classifies how a component's samples appear in the log.
type ComponentKind string

const (
	// KindValue is a plain value column.
	KindValue ComponentKind = "value"
	// KindImage and KindAudio are file-preview kinds: in the dataset
	// variant they contribute an extra "<label> file" column.
	KindImage ComponentKind = "image"
	KindAudio ComponentKind = "audio"
)

// Component describes one input or output of the hosting application.
type Component struct {
	Label string
	Kind  ComponentKind
}

// FieldName returns the header name for this component, falling back to a
// positional name when the component has no label.
func (c Component) FieldName(index int) string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("component %d", index)
}

// HasFilePreview reports whether this component contributes a preview column.
func (c Component) HasFilePreview() bool {
	return c.Kind == KindImage || c.Kind == KindAudio
}

// PreviewType returns the infos-document type name for a preview component.
func (c Component) PreviewType() string {
	switch c.Kind {
	case KindImage:
		return "Image"
	case KindAudio:
		return "Audio"
	default:
		return ""
	}
}

// Header is the ordered sequence of field names, written exactly once per log.
type Header []string

// Record is one row of the log, same cardinality as the header.
type Record []string
