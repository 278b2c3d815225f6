package clinical

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TriggerType string

const (
	TriggerCrisisKeywords    TriggerType = "crisis_keywords"
	TriggerMoodPattern       TriggerType = "mood_pattern"
	TriggerConversationCount TriggerType = "conversation_count"
	TriggerAssessmentResults TriggerType = "assessment_results"
	TriggerManual            TriggerType = "manual"
)

func (t TriggerType) Valid() bool {
	switch t {
	case TriggerCrisisKeywords, TriggerMoodPattern, TriggerConversationCount, TriggerAssessmentResults, TriggerManual:
		return true
	}
	return false
}

type ConcerningPattern struct {
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// Note is a clinician-facing record of one risk event. Only Review mutates it after creation.
type Note struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index:idx_clinical_note_user_created,priority:1" json:"user_id"`
	Severity    Severity    `gorm:"column:severity;type:text;not null;index:idx_clinical_note_severity_reviewed,priority:1" json:"severity"`
	TriggerType TriggerType `gorm:"column:trigger_type;type:text;not null" json:"trigger_type"`
	Summary     string      `gorm:"column:summary;type:text;not null" json:"summary"`

	ConversationContext datatypes.JSON `gorm:"column:conversation_context" json:"conversation_context"`
	Recommendations     datatypes.JSON `gorm:"column:recommendations" json:"recommendations"`
	ConcerningPatterns  datatypes.JSON `gorm:"column:concerning_patterns" json:"concerning_patterns"`
	MoodData            datatypes.JSON `gorm:"column:mood_data" json:"mood_data"`
	PersonalityTraits   datatypes.JSON `gorm:"column:personality_traits" json:"personality_traits"`
	FlaggedKeywords     datatypes.JSON `gorm:"column:flagged_keywords" json:"flagged_keywords"`

	Reviewed    bool       `gorm:"column:reviewed;not null;default:false;index:idx_clinical_note_severity_reviewed,priority:2" json:"reviewed"`
	ReviewedBy  string     `gorm:"column:reviewed_by;type:text;not null;default:''" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes string     `gorm:"column:review_notes;type:text;not null;default:''" json:"review_notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_clinical_note_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Note) TableName() string { return "clinical_note" }

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (n *Note) RecommendationList() []string {
	var out []string
	decodeJSON(n.Recommendations, &out)
	return out
}

func (n *Note) FlaggedKeywordList() []string {
	var out []string
	decodeJSON(n.FlaggedKeywords, &out)
	return out
}

func (n *Note) PatternList() []ConcerningPattern {
	var out []ConcerningPattern
	decodeJSON(n.ConcerningPatterns, &out)
	return out
}

func decodeJSON(raw datatypes.JSON, dst any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

// JSON marshals v for one of the note's JSON columns. A nil value is stored as SQL-friendly "null".
func JSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(raw)
}

// Review is the clinician action applied to a note.
type Review struct {
	ReviewedBy string
	Notes      string
	At         time.Time
}

// ListFilter narrows clinician listings. Nil fields do not filter.
type ListFilter struct {
	UserID   *uuid.UUID
	Reviewed *bool
	Severity *Severity
	Limit    int
}
