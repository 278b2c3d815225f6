package app

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	"github.com/yungbote/mindbridge-backend/internal/modules/chat"
	"github.com/yungbote/mindbridge-backend/internal/modules/clinical"
	"github.com/yungbote/mindbridge-backend/internal/modules/health"
	"github.com/yungbote/mindbridge-backend/internal/modules/mood"
	"github.com/yungbote/mindbridge-backend/internal/modules/personality"
	"github.com/yungbote/mindbridge-backend/internal/platform/llm"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
	"github.com/yungbote/mindbridge-backend/internal/platform/notebus"
)

type Services struct {
	Health      health.Usecases
	Mood        mood.Usecases
	Personality personality.Usecases
	Clinical    clinical.Usecases
	Chat        chat.Usecases

	Notes *clinical.NoteDispatcher
	// Bus is nil when REDIS_ADDR is unset.
	Bus notebus.Bus
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, r repos.Repos) (Services, error) {
	log.Info("Wiring services...")

	rules, err := clinical.LoadRules()
	if err != nil {
		return Services{}, err
	}

	bus, err := notebus.NewFromEnv(ctx, log)
	switch {
	case errors.Is(err, notebus.ErrDisabled):
		bus = nil
	case err != nil:
		log.Warn("Note bus unavailable; clinical events will not be published", "error", err)
		bus = nil
	}

	clinicalDeps := clinical.UsecasesDeps{
		Log:         log,
		Moods:       r.MoodEntry,
		Personality: r.PersonalitySnapshot,
		Notes:       r.ClinicalNote,
		Rules:       rules,
	}
	if bus != nil {
		clinicalDeps.Events = bus
	}
	clinicalUC := clinical.New(clinicalDeps)
	dispatcher := clinical.NewNoteDispatcher(clinicalUC, log, cfg.NoteTimeout)

	var llmClient llm.Client
	c, err := llm.NewClient(log, llm.ConfigFromEnv())
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn("LLM_API_KEY not set; chat replies will be a placeholder")
	case err != nil:
		return Services{}, err
	default:
		llmClient = c
	}

	return Services{
		Health:      health.New(health.UsecasesDeps{DB: db, Log: log, HealthDays: r.HealthDay}),
		Mood:        mood.New(mood.UsecasesDeps{Log: log, Entries: r.MoodEntry}),
		Personality: personality.New(personality.UsecasesDeps{Log: log, Snapshots: r.PersonalitySnapshot}),
		Clinical:    clinicalUC,
		Chat:        chat.New(chat.UsecasesDeps{Log: log, LLM: llmClient, Notes: dispatcher}),
		Notes:       dispatcher,
		Bus:         bus,
	}, nil
}
