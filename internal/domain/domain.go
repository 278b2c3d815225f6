package domain

import (
	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	"github.com/yungbote/mindbridge-backend/internal/domain/health"
	"github.com/yungbote/mindbridge-backend/internal/domain/mood"
	"github.com/yungbote/mindbridge-backend/internal/domain/personality"
)

type (
	HealthDay           = health.HealthDay
	MoodEntry           = mood.MoodEntry
	PersonalitySnapshot = personality.Snapshot
	TraitResult         = personality.TraitResult
	ClinicalNote        = clinical.Note
	ConcerningPattern   = clinical.ConcerningPattern
	Severity            = clinical.Severity
	TriggerType         = clinical.TriggerType
	ChatMessage         = chat.Message
)

const (
	SeverityLow    = clinical.SeverityLow
	SeverityMedium = clinical.SeverityMedium
	SeverityHigh   = clinical.SeverityHigh
	SeverityUrgent = clinical.SeverityUrgent
)

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&health.HealthDay{},
		&mood.MoodEntry{},
		&personality.Snapshot{},
		&clinical.Note{},
	}
}
