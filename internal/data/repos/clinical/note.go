package clinical

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/db"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type ClinicalNoteRepo interface {
	Create(dbc dbctx.Context, note *types.ClinicalNote) (*types.ClinicalNote, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ClinicalNote, error)
	List(dbc dbctx.Context, filter clinical.ListFilter) ([]*types.ClinicalNote, error)
	// Review touches only the review columns; summary and recommendations are never rewritten.
	Review(dbc dbctx.Context, id uuid.UUID, review clinical.Review) (*types.ClinicalNote, error)
}

type clinicalNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClinicalNoteRepo(db *gorm.DB, baseLog *logger.Logger) ClinicalNoteRepo {
	return &clinicalNoteRepo{db: db, log: baseLog.With("repo", "ClinicalNoteRepo")}
}

func (r *clinicalNoteRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *clinicalNoteRepo) Create(dbc dbctx.Context, note *types.ClinicalNote) (*types.ClinicalNote, error) {
	if note == nil {
		return nil, apperrors.ErrInvalidArgument
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(note).Error; err != nil {
		return nil, db.Classify("create clinical note", err)
	}
	return note, nil
}

func (r *clinicalNoteRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ClinicalNote, error) {
	var out types.ClinicalNote
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, db.Classify("get clinical note", err)
	}
	return &out, nil
}

func (r *clinicalNoteRepo) List(dbc dbctx.Context, filter clinical.ListFilter) ([]*types.ClinicalNote, error) {
	var out []*types.ClinicalNote
	q := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.ClinicalNote{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Reviewed != nil {
		q = q.Where("reviewed = ?", *filter.Reviewed)
	}
	if filter.Severity != nil {
		q = q.Where("severity = ?", string(*filter.Severity))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, db.Classify("list clinical notes", err)
	}
	return out, nil
}

func (r *clinicalNoteRepo) Review(dbc dbctx.Context, id uuid.UUID, review clinical.Review) (*types.ClinicalNote, error) {
	at := review.At.UTC()
	if review.At.IsZero() {
		at = time.Now().UTC()
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.ClinicalNote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reviewed":     true,
			"reviewed_by":  review.ReviewedBy,
			"reviewed_at":  at,
			"review_notes": review.Notes,
			"updated_at":   at,
		})
	if res.Error != nil {
		return nil, db.Classify("review clinical note", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.GetByID(dbc, id)
}
