package mood

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodEntry is a single check-in. Entries are never edited, only created or deleted.
type MoodEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_mood_entry_user_date,priority:1" json:"user_id"`
	Date        time.Time `gorm:"column:date;not null;index:idx_mood_entry_user_date,priority:2" json:"date"`
	Mood        int       `gorm:"column:mood;not null" json:"mood"`
	StressLevel *int      `gorm:"column:stress_level" json:"stress_level,omitempty"`
	Notes       string    `gorm:"column:notes;type:text;not null;default:''" json:"notes"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (MoodEntry) TableName() string { return "mood_entry" }

func (m *MoodEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

const (
	MinScore      = 1
	MaxScore      = 10
	MaxNotesChars = 500
)
