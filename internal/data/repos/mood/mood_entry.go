package mood

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/db"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type MoodEntryRepo interface {
	Create(dbc dbctx.Context, entry *types.MoodEntry) (*types.MoodEntry, error)
	// ListSince returns a user's entries dated at or after since, oldest first unless newestFirst.
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, newestFirst bool) ([]*types.MoodEntry, error)
	DeleteForUser(dbc dbctx.Context, userID, entryID uuid.UUID) error
}

type moodEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodEntryRepo(db *gorm.DB, baseLog *logger.Logger) MoodEntryRepo {
	return &moodEntryRepo{db: db, log: baseLog.With("repo", "MoodEntryRepo")}
}

func (r *moodEntryRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *moodEntryRepo) Create(dbc dbctx.Context, entry *types.MoodEntry) (*types.MoodEntry, error) {
	if entry == nil {
		return nil, apperrors.ErrInvalidArgument
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	entry.Date = entry.Date.UTC()
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(entry).Error; err != nil {
		return nil, db.Classify("create mood entry", err)
	}
	return entry, nil
}

func (r *moodEntryRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, newestFirst bool) ([]*types.MoodEntry, error) {
	var out []*types.MoodEntry
	if userID == uuid.Nil {
		return out, nil
	}
	order := "date ASC"
	if newestFirst {
		order = "date DESC"
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND date >= ?", userID, since.UTC()).
		Order(order).
		Find(&out).Error; err != nil {
		return nil, db.Classify("list mood entries", err)
	}
	return out, nil
}

func (r *moodEntryRepo) DeleteForUser(dbc dbctx.Context, userID, entryID uuid.UUID) error {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&types.MoodEntry{})
	if res.Error != nil {
		return db.Classify("delete mood entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
