package apierr

import (
	"fmt"
	"net/http"

	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps a service error onto the transport status and code. fallbackCode is used for
// errors outside the known taxonomy, which become 500s.
func From(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var api *Error
	if apperrors.As(err, &api) {
		return api
	}
	var invalid *apperrors.InvalidArchiveError
	if apperrors.As(err, &invalid) {
		return New(http.StatusBadRequest, "invalid_archive", err)
	}
	var missing *apperrors.MissingExportError
	if apperrors.As(err, &missing) {
		return New(http.StatusBadRequest, "missing_export", err)
	}
	var parse *apperrors.ParseError
	if apperrors.As(err, &parse) {
		return New(http.StatusUnprocessableEntity, "parse_error", err)
	}
	var persist *apperrors.PersistenceError
	if apperrors.As(err, &persist) {
		if persist.Transient {
			return New(http.StatusServiceUnavailable, "storage_unavailable", err)
		}
		return New(http.StatusInternalServerError, "storage_error", err)
	}
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case apperrors.Is(err, apperrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	}
	return New(http.StatusInternalServerError, fallbackCode, err)
}
