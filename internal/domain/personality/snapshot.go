package personality

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	Openness          = "Openness"
	Conscientiousness = "Conscientiousness"
	Extraversion      = "Extraversion"
	Agreeableness     = "Agreeableness"
	Neuroticism       = "Neuroticism"
)

// Traits is the Big Five in display order.
var Traits = []string{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

type TraitResult struct {
	Score          float64 `json:"score"`
	Percentile     int     `json:"percentile"`
	Interpretation string  `json:"interpretation"`
}

// Snapshot is one completed assessment. Snapshots are append-only; the current profile is
// the most recent by CreatedAt.
type Snapshot struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_personality_snapshot_user_created,priority:1" json:"user_id"`
	Results   datatypes.JSON `gorm:"column:results;not null" json:"results"`
	CreatedAt time.Time      `gorm:"not null;index:idx_personality_snapshot_user_created,priority:2" json:"created_at"`
}

func (Snapshot) TableName() string { return "personality_snapshot" }

func (s *Snapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Snapshot) TraitResults() (map[string]TraitResult, error) {
	out := map[string]TraitResult{}
	if s == nil || len(s.Results) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(s.Results, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Snapshot) SetTraitResults(results map[string]TraitResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	s.Results = datatypes.JSON(raw)
	return nil
}
