package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
)

func TestClassify(t *testing.T) {
	if Classify("op", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
	if err := Classify("get", fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound)); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("record not found should map to ErrNotFound, got %v", err)
	}

	cases := []struct {
		name      string
		err       error
		code      string
		transient bool
	}{
		{"serialization", &pgconn.PgError{Code: "40001"}, "40001", true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, "40P01", true},
		{"connection", &pgconn.PgError{Code: "08006"}, "08006", true},
		{"unique", &pgconn.PgError{Code: "23505"}, "23505", false},
		{"plain", errors.New("disk full"), "", false},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify("upsert", tc.err)
			var pe *apperrors.PersistenceError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PersistenceError, got %T", err)
			}
			if pe.Code != tc.code || pe.Transient != tc.transient || pe.Op != "upsert" {
				t.Fatalf("got code=%q transient=%v op=%q", pe.Code, pe.Transient, pe.Op)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("PersistenceError should unwrap to the cause")
			}
		})
	}
}
