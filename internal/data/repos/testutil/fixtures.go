package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/personality"
)

func Ptr[T any](v T) *T { return &v }

func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func SeedMood(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, mood int, stress *int) *types.MoodEntry {
	tb.Helper()
	m := &types.MoodEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        at.UTC(),
		Mood:        mood,
		StressLevel: stress,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mood entry: %v", err)
	}
	return m
}

func SeedPersonality(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, scores map[string]float64) *types.PersonalitySnapshot {
	tb.Helper()
	s := &types.PersonalitySnapshot{ID: uuid.New(), UserID: userID, CreatedAt: at.UTC()}
	results := map[string]personality.TraitResult{}
	for trait, score := range scores {
		results[trait] = personality.TraitResult{Score: score}
	}
	if err := s.SetTraitResults(results); err != nil {
		tb.Fatalf("encode traits: %v", err)
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed personality snapshot: %v", err)
	}
	return s
}

func SeedHealthDay(tb testing.TB, ctx context.Context, tx *gorm.DB, row *types.HealthDay) *types.HealthDay {
	tb.Helper()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed health day: %v", err)
	}
	return row
}
