package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile is matched by MissingFileError.
	ErrMissingFile = errors.New("missing reference file")
	// ErrNoResults is returned when a hierarchical filter yields nothing.
	ErrNoResults = errors.New("no results")
)

// MissingFileError reports a required reference table that is absent.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing file: %s", e.Path)
}

func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// ParseError reports a malformed value in a reference table.
type ParseError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %s: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateKeyError reports a key that appears more than once in a table
// whose rows must be unique.
type DuplicateKeyError struct {
	Table string
	Key   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: duplicate key %q", e.Table, e.Key)
}

// ValidationError reports a row that violates a catalog constraint.
type ValidationError struct {
	Table   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}
