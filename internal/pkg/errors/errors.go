package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidArchiveError means the upload could not be opened as a ZIP archive.
type InvalidArchiveError struct {
	Err error
}

func (e *InvalidArchiveError) Error() string {
	if e.Err == nil {
		return "invalid health export archive"
	}
	return "invalid health export archive: " + e.Err.Error()
}

func (e *InvalidArchiveError) Unwrap() error { return e.Err }

// MissingExportError means the archive opened but the export document was not inside it.
type MissingExportError struct {
	Path string
}

func (e *MissingExportError) Error() string {
	return fmt.Sprintf("health export archive has no %s", e.Path)
}

// ParseError means the export document was malformed. No partial import is kept.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse health export at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError wraps a storage failure. Code is the SQLSTATE when the store reported one.
type PersistenceError struct {
	Op        string
	Code      string
	Transient bool
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: storage error (sqlstate %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: storage error: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }
