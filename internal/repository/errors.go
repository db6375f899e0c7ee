package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCorruptData is matched by every *CorruptDataError.
	ErrCorruptData = errors.New("repository: partition data is corrupt")
	// ErrSchemaMismatch is matched by every *SchemaMismatchError.
	ErrSchemaMismatch = errors.New("repository: required columns missing")

	ErrDuplicateProject   = errors.New("repository: project already exists")
	ErrEmptyProjectName   = errors.New("repository: project name cannot be empty")
	ErrInvalidProjectName = errors.New("repository: project name is not filesystem safe")
)

// CorruptDataError reports a partition file that exists and is non-empty
// but cannot be read as a record table. The file is left as is.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("repository: corrupt partition %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

func (e *CorruptDataError) Is(target error) bool { return target == ErrCorruptData }

// SchemaMismatchError lists the required columns a batch did not carry.
type SchemaMismatchError struct {
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("repository: missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// RowError points at the first data line that could not be decoded.
// Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
