package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
)

// Classify turns a storage failure into the domain error taxonomy. Missing rows become
// ErrNotFound; everything else becomes a PersistenceError tagged with the SQLSTATE when
// the driver reported one.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	var already *apperrors.PersistenceError
	if errors.As(err, &already) {
		return err
	}
	pe := &apperrors.PersistenceError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		pe.Code = pgErr.Code
		pe.Transient = IsTransientCode(pgErr.Code)
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		pe.Transient = true
	}
	return pe
}

// IsTransientCode reports SQLSTATEs worth retrying at a higher level: connection exceptions,
// serialization failures, deadlocks and "cannot connect now".
func IsTransientCode(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"):
		return true
	case code == "40001", code == "40P01", code == "57P03":
		return true
	}
	return false
}
