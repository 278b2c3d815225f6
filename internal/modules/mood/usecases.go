package mood

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	domainmood "github.com/yungbote/mindbridge-backend/internal/domain/mood"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

type UsecasesDeps struct {
	Log     *logger.Logger
	Entries repos.MoodEntryRepo
	Now     func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("module", "mood")
	return Usecases{deps: deps}
}

// CheckIn is one mood submission. A nil Date means now.
type CheckIn struct {
	Date        *time.Time
	Mood        int
	StressLevel *int
	Notes       string
}

func (c CheckIn) validate() error {
	if c.Mood < domainmood.MinScore || c.Mood > domainmood.MaxScore {
		return fmt.Errorf("mood must be between %d and %d: %w", domainmood.MinScore, domainmood.MaxScore, apperrors.ErrInvalidArgument)
	}
	if c.StressLevel != nil && (*c.StressLevel < domainmood.MinScore || *c.StressLevel > domainmood.MaxScore) {
		return fmt.Errorf("stress level must be between %d and %d: %w", domainmood.MinScore, domainmood.MaxScore, apperrors.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(c.Notes) > domainmood.MaxNotesChars {
		return fmt.Errorf("notes exceed %d characters: %w", domainmood.MaxNotesChars, apperrors.ErrInvalidArgument)
	}
	return nil
}

func (u Usecases) AddEntry(ctx context.Context, userID uuid.UUID, in CheckIn) (*types.MoodEntry, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("add mood entry: %w", apperrors.ErrInvalidArgument)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := u.deps.Now().UTC()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}
	entry, err := u.deps.Entries.Create(dbctx.Context{Ctx: ctx}, &types.MoodEntry{
		UserID:      userID,
		Date:        date,
		Mood:        in.Mood,
		StressLevel: in.StressLevel,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("add mood entry: %w", err)
	}
	u.deps.Log.Debug("mood entry added", "user_id", userID, "entry_id", entry.ID)
	return entry, nil
}

// History returns entries from the last days days, newest first. days <= 0 means the default.
func (u Usecases) History(ctx context.Context, userID uuid.UUID, days int) ([]*types.MoodEntry, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}
	since := u.deps.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	out, err := u.deps.Entries.ListSince(dbctx.Context{Ctx: ctx}, userID, since, true)
	if err != nil {
		return nil, fmt.Errorf("mood history: %w", err)
	}
	return out, nil
}

// DeleteEntry removes an entry only when userID owns it; otherwise ErrNotFound.
func (u Usecases) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	if err := u.deps.Entries.DeleteForUser(dbctx.Context{Ctx: ctx}, userID, entryID); err != nil {
		return fmt.Errorf("delete mood entry: %w", err)
	}
	u.deps.Log.Debug("mood entry deleted", "user_id", userID, "entry_id", entryID)
	return nil
}
