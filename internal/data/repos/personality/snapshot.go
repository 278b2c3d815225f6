package personality

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/db"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type SnapshotRepo interface {
	Create(dbc dbctx.Context, snap *types.PersonalitySnapshot) (*types.PersonalitySnapshot, error)
	// Latest returns nil, nil when the user has never completed an assessment.
	Latest(dbc dbctx.Context, userID uuid.UUID) (*types.PersonalitySnapshot, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PersonalitySnapshot, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: db, log: baseLog.With("repo", "PersonalitySnapshotRepo")}
}

func (r *snapshotRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *snapshotRepo) Create(dbc dbctx.Context, snap *types.PersonalitySnapshot) (*types.PersonalitySnapshot, error) {
	if snap == nil {
		return nil, apperrors.ErrInvalidArgument
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(snap).Error; err != nil {
		return nil, db.Classify("create personality snapshot", err)
	}
	return snap, nil
}

func (r *snapshotRepo) Latest(dbc dbctx.Context, userID uuid.UUID) (*types.PersonalitySnapshot, error) {
	var out types.PersonalitySnapshot
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, db.Classify("latest personality snapshot", err)
	}
	return &out, nil
}

func (r *snapshotRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PersonalitySnapshot, error) {
	var out []*types.PersonalitySnapshot
	q := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, db.Classify("list personality snapshots", err)
	}
	return out, nil
}
