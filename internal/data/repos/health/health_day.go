package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/mindbridge-backend/internal/data/db"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/health"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type HealthDayRepo interface {
	// UpsertDays writes rows keyed on (user_id, date) in one transaction. Existing rows have
	// every metric column overwritten, nulls included.
	UpsertDays(dbc dbctx.Context, rows []*types.HealthDay) (int, error)
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.HealthDay, error)
}

type healthDayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHealthDayRepo(db *gorm.DB, baseLog *logger.Logger) HealthDayRepo {
	return &healthDayRepo{db: db, log: baseLog.With("repo", "HealthDayRepo")}
}

func (r *healthDayRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *healthDayRepo) UpsertDays(dbc dbctx.Context, rows []*types.HealthDay) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.Date = row.Date.UTC()
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
	}

	updateCols := append(append([]string{}, health.MetricColumns...), "updated_at")
	err := r.dbx(dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns(updateCols),
		}).CreateInBatches(&rows, 500).Error
	})
	if err != nil {
		r.log.Error("health day upsert failed", "rows", len(rows), "error", err)
		return 0, db.Classify("upsert health days", err)
	}
	return len(rows), nil
}

func (r *healthDayRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.HealthDay, error) {
	var out []*types.HealthDay
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND date >= ?", userID, since.UTC()).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, db.Classify("list health days", err)
	}
	return out, nil
}
