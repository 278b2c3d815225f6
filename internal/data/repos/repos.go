package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/repos/clinical"
	"github.com/yungbote/mindbridge-backend/internal/data/repos/health"
	"github.com/yungbote/mindbridge-backend/internal/data/repos/mood"
	"github.com/yungbote/mindbridge-backend/internal/data/repos/personality"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type HealthDayRepo = health.HealthDayRepo
type MoodEntryRepo = mood.MoodEntryRepo
type PersonalitySnapshotRepo = personality.SnapshotRepo
type ClinicalNoteRepo = clinical.ClinicalNoteRepo

type Repos struct {
	HealthDay           HealthDayRepo
	MoodEntry           MoodEntryRepo
	PersonalitySnapshot PersonalitySnapshotRepo
	ClinicalNote        ClinicalNoteRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		HealthDay:           health.NewHealthDayRepo(db, log),
		MoodEntry:           mood.NewMoodEntryRepo(db, log),
		PersonalitySnapshot: personality.NewSnapshotRepo(db, log),
		ClinicalNote:        clinical.NewClinicalNoteRepo(db, log),
	}
}
