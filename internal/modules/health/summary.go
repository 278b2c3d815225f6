package health

import (
	"fmt"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

const DefaultSummaryDays = 30

type MetricSummary struct {
	Average float64 `json:"average"`
	Days    int     `json:"days"`
}

type Summary struct {
	Period         string                   `json:"period"`
	DataPointCount int                      `json:"dataPointCount"`
	Metrics        map[string]MetricSummary `json:"metrics"`
}

type family struct {
	name string
	get  func(*types.HealthDay) *float64
}

var summaryFamilies = []family{
	{"sleep", func(d *types.HealthDay) *float64 { return d.SleepHours }},
	{"hrv", func(d *types.HealthDay) *float64 { return d.HeartRateVariability }},
	{"restingHeartRate", func(d *types.HealthDay) *float64 { return d.RestingHeartRate }},
	{"steps", func(d *types.HealthDay) *float64 { return d.Steps }},
	{"exercise", func(d *types.HealthDay) *float64 { return d.ExerciseMinutes }},
	{"mindfulness", func(d *types.HealthDay) *float64 { return d.MindfulMinutes }},
	{"activeCalories", func(d *types.HealthDay) *float64 { return d.ActiveCalories }},
	{"basalCalories", func(d *types.HealthDay) *float64 { return d.BasalCalories }},
	{"totalCalories", func(d *types.HealthDay) *float64 { return d.TotalCalories }},
	{"distance", func(d *types.HealthDay) *float64 { return d.DistanceWalkingRunning }},
	{"flightsClimbed", func(d *types.HealthDay) *float64 { return d.FlightsClimbed }},
	{"vo2Max", func(d *types.HealthDay) *float64 { return d.VO2Max }},
	{"bloodOxygen", func(d *types.HealthDay) *float64 { return d.BloodOxygenSaturation }},
	{"respiratoryRate", func(d *types.HealthDay) *float64 { return d.RespiratoryRate }},
	{"stressLevel", func(d *types.HealthDay) *float64 {
		if d.StressLevel == nil {
			return nil
		}
		v := float64(*d.StressLevel)
		return &v
	}},
}

// Summarize averages each metric over only the days that carry it. It returns nil when rows
// is empty; families with no data are left out.
func Summarize(rows []*types.HealthDay, days int) *Summary {
	if len(rows) == 0 {
		return nil
	}
	out := &Summary{
		Period:         fmt.Sprintf("Last %d days", days),
		DataPointCount: len(rows),
		Metrics:        map[string]MetricSummary{},
	}
	for _, f := range summaryFamilies {
		var sum float64
		var n int
		for _, row := range rows {
			if v := f.get(row); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			continue
		}
		out.Metrics[f.name] = MetricSummary{Average: sum / float64(n), Days: n}
	}
	return out
}
