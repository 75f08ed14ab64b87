// Package pathutil provides name and path validation for flag logs.
package pathutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/flaglog/flaglog/pkg/errclass"
)

var datasetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateDatasetName checks a remote dataset repository name.
func ValidateDatasetName(name string) error {
	if name == "" {
		return errclass.ErrNameInvalid.WithMessage("dataset name must not be empty")
	}
	name = norm.NFC.String(name)
	if !datasetNameRegex.MatchString(name) {
		return errclass.ErrNameInvalid.WithMessagef("dataset name must match [a-zA-Z0-9._-]+: %s", name)
	}
	return nil
}

// ValidateFieldLabel checks a component label destined for a header cell or
// an on-disk subdirectory name.
func ValidateFieldLabel(label string) error {
	if label == "" {
		return nil // unlabeled components fall back to a positional name
	}
	label = norm.NFC.String(label)
	if label == ".." || strings.Contains(label, "..") {
		return errclass.ErrNameInvalid.WithMessagef("label must not contain '..': %s", label)
	}
	if strings.ContainsAny(label, "/\\") {
		return errclass.ErrNameInvalid.WithMessagef("label must not contain separators: %s", label)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return errclass.ErrNameInvalid.WithMessagef("label must not contain control characters: %q", label)
		}
	}
	return nil
}

// SafeJoin joins rel onto root, rejecting any result that escapes root.
func SafeJoin(root, rel string) (string, error) {
	joined := filepath.Join(root, rel)
	relBack, err := filepath.Rel(root, joined)
	if err != nil || relBack == ".." || strings.HasPrefix(relBack, ".."+string(filepath.Separator)) {
		return "", errclass.ErrNameInvalid.WithMessagef("path escapes root: %s", rel)
	}
	return joined, nil
}
