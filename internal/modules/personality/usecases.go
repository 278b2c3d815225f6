package personality

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	domain "github.com/yungbote/mindbridge-backend/internal/domain/personality"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

const historyLimit = 50

type UsecasesDeps struct {
	Log       *logger.Logger
	Snapshots repos.PersonalitySnapshotRepo
	Now       func() time.Time
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
	deps.Log = deps.Log.With("module", "personality")
	return Usecases{deps: deps}
}

// Profile is the client view of one snapshot.
type Profile struct {
	ID        uuid.UUID                     `json:"id"`
	Results   map[string]domain.TraitResult `json:"results"`
	Timestamp time.Time                     `json:"timestamp"`
}

func toProfile(s *types.PersonalitySnapshot) (Profile, error) {
	results, err := s.TraitResults()
	if err != nil {
		return Profile{}, fmt.Errorf("decode snapshot %s: %w", s.ID, err)
	}
	return Profile{ID: s.ID, Results: results, Timestamp: s.CreatedAt}, nil
}

// RecordResults scores the trait averages and stores them as the user's newest snapshot.
func (u Usecases) RecordResults(ctx context.Context, userID uuid.UUID, averages map[string]float64) (Profile, error) {
	if userID == uuid.Nil {
		return Profile{}, fmt.Errorf("record personality: %w", apperrors.ErrInvalidArgument)
	}
	results, err := Score(averages)
	if err != nil {
		return Profile{}, err
	}
	snap := &types.PersonalitySnapshot{UserID: userID, CreatedAt: u.deps.Now().UTC()}
	if err := snap.SetTraitResults(results); err != nil {
		return Profile{}, fmt.Errorf("encode personality results: %w", err)
	}
	saved, err := u.deps.Snapshots.Create(dbctx.Context{Ctx: ctx}, snap)
	if err != nil {
		return Profile{}, fmt.Errorf("record personality: %w", err)
	}
	u.deps.Log.Info("personality snapshot recorded", "user_id", userID, "snapshot_id", saved.ID, "traits", len(results))
	return Profile{ID: saved.ID, Results: results, Timestamp: saved.CreatedAt}, nil
}

// History lists the user's snapshots newest first.
func (u Usecases) History(ctx context.Context, userID uuid.UUID) ([]Profile, error) {
	snaps, err := u.deps.Snapshots.ListByUser(dbctx.Context{Ctx: ctx}, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("personality history: %w", err)
	}
	out := make([]Profile, 0, len(snaps))
	for _, s := range snaps {
		p, err := toProfile(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
