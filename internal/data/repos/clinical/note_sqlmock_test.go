package clinical

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

func newMockRepo(t *testing.T) (ClinicalNoteRepo, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	return NewClinicalNoteRepo(gdb, logger.Nop()), mock
}

func TestClinicalNoteRepoReviewTransientFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "clinical_note"`)).
		WillReturnError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})

	_, err := repo.Review(dbctx.Context{Ctx: context.Background()}, uuid.New(), clinical.Review{ReviewedBy: "dr.lee"})
	require.Error(t, err)

	var pe *apperrors.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "40001", pe.Code)
	assert.True(t, pe.Transient)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicalNoteRepoReviewNoRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "clinical_note"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Review(dbctx.Context{Ctx: context.Background()}, uuid.New(), clinical.Review{ReviewedBy: "dr.lee"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
