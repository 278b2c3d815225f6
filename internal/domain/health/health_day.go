package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HealthDay is one user's aggregated wearable metrics for one UTC calendar day.
// Every metric is nullable; a nil field means the export had no data for it that day.
type HealthDay struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_health_day_user_date,priority:1" json:"user_id"`
	Date   time.Time `gorm:"column:date;not null;uniqueIndex:idx_health_day_user_date,priority:2;index" json:"date"`

	SleepHours             *float64 `gorm:"column:sleep_hours" json:"sleep_hours,omitempty"`
	HeartRateVariability   *float64 `gorm:"column:heart_rate_variability" json:"heart_rate_variability,omitempty"`
	RestingHeartRate       *float64 `gorm:"column:resting_heart_rate" json:"resting_heart_rate,omitempty"`
	Steps                  *float64 `gorm:"column:steps" json:"steps,omitempty"`
	ExerciseMinutes        *float64 `gorm:"column:exercise_minutes" json:"exercise_minutes,omitempty"`
	MindfulMinutes         *float64 `gorm:"column:mindful_minutes" json:"mindful_minutes,omitempty"`
	ActiveCalories         *float64 `gorm:"column:active_calories" json:"active_calories,omitempty"`
	BasalCalories          *float64 `gorm:"column:basal_calories" json:"basal_calories,omitempty"`
	TotalCalories          *float64 `gorm:"column:total_calories" json:"total_calories,omitempty"`
	DistanceWalkingRunning *float64 `gorm:"column:distance_walking_running" json:"distance_walking_running,omitempty"`
	FlightsClimbed         *float64 `gorm:"column:flights_climbed" json:"flights_climbed,omitempty"`
	VO2Max                 *float64 `gorm:"column:vo2_max" json:"vo2_max,omitempty"`
	BloodOxygenSaturation  *float64 `gorm:"column:blood_oxygen_saturation" json:"blood_oxygen_saturation,omitempty"`
	RespiratoryRate        *float64 `gorm:"column:respiratory_rate" json:"respiratory_rate,omitempty"`

	// StressLevel is derived from HRV on import (1-10, higher is more stressed).
	StressLevel *int `gorm:"column:stress_level" json:"stress_level,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (HealthDay) TableName() string { return "health_day" }

func (h *HealthDay) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// MetricColumns lists the columns an import overwrites on conflict.
var MetricColumns = []string{
	"sleep_hours",
	"heart_rate_variability",
	"resting_heart_rate",
	"steps",
	"exercise_minutes",
	"mindful_minutes",
	"active_calories",
	"basal_calories",
	"total_calories",
	"distance_walking_running",
	"flights_climbed",
	"vo2_max",
	"blood_oxygen_saturation",
	"respiratory_rate",
	"stress_level",
}

// DayKeyLayout is the calendar-day key used across the import pipeline.
const DayKeyLayout = "2006-01-02"
