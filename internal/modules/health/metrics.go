package health

import (
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/health"
)

type Metric int

const (
	MetricSleep Metric = iota
	MetricHRV
	MetricRestingHeartRate
	MetricSteps
	MetricExercise
	MetricMindful
	MetricActiveCalories
	MetricBasalCalories
	MetricDistance
	MetricFlightsClimbed
	MetricVO2Max
	MetricBloodOxygen
	MetricRespiratoryRate
	metricCount
)

// DayMetrics holds one day's reduced values. A nil field had no records that day.
type DayMetrics struct {
	SleepHours             *float64
	HeartRateVariability   *float64
	RestingHeartRate       *float64
	Steps                  *float64
	ExerciseMinutes        *float64
	MindfulMinutes         *float64
	ActiveCalories         *float64
	BasalCalories          *float64
	DistanceWalkingRunning *float64
	FlightsClimbed         *float64
	VO2Max                 *float64
	BloodOxygenSaturation  *float64
	RespiratoryRate        *float64
}

func (d *DayMetrics) field(m Metric) **float64 {
	switch m {
	case MetricSleep:
		return &d.SleepHours
	case MetricHRV:
		return &d.HeartRateVariability
	case MetricRestingHeartRate:
		return &d.RestingHeartRate
	case MetricSteps:
		return &d.Steps
	case MetricExercise:
		return &d.ExerciseMinutes
	case MetricMindful:
		return &d.MindfulMinutes
	case MetricActiveCalories:
		return &d.ActiveCalories
	case MetricBasalCalories:
		return &d.BasalCalories
	case MetricDistance:
		return &d.DistanceWalkingRunning
	case MetricFlightsClimbed:
		return &d.FlightsClimbed
	case MetricVO2Max:
		return &d.VO2Max
	case MetricBloodOxygen:
		return &d.BloodOxygenSaturation
	case MetricRespiratoryRate:
		return &d.RespiratoryRate
	}
	return nil
}

func (d *DayMetrics) Get(m Metric) *float64 {
	if f := d.field(m); f != nil {
		return *f
	}
	return nil
}

func (d *DayMetrics) Set(m Metric, v float64) {
	if f := d.field(m); f != nil {
		*f = &v
	}
}

func (d *DayMetrics) Empty() bool {
	for m := Metric(0); m < metricCount; m++ {
		if d.Get(m) != nil {
			return false
		}
	}
	return true
}

// dayAccumulator is the running state for one day while the document streams.
type dayAccumulator struct {
	sum   [metricCount]float64
	count [metricCount]int
}

func (a *dayAccumulator) add(m Metric, v float64) {
	a.sum[m] += v
	a.count[m]++
}

func (a *dayAccumulator) reduce() *DayMetrics {
	out := &DayMetrics{}
	for m := Metric(0); m < metricCount; m++ {
		if a.count[m] == 0 {
			continue
		}
		if averaged(m) {
			out.Set(m, a.sum[m]/float64(a.count[m]))
		} else {
			out.Set(m, a.sum[m])
		}
	}
	return out
}

// averaged reports whether a metric is a per-day mean rather than a daily total.
func averaged(m Metric) bool {
	switch m {
	case MetricHRV, MetricRestingHeartRate, MetricVO2Max, MetricBloodOxygen, MetricRespiratoryRate:
		return true
	}
	return false
}

// StressFromHRV maps heart-rate variability (ms) onto the 1-10 stress scale. Lower HRV reads
// as higher stress; each threshold is exclusive so a boundary lands in the calmer bucket.
func StressFromHRV(hrv float64) int {
	switch {
	case hrv < 20:
		return 8
	case hrv < 30:
		return 6
	case hrv < 50:
		return 4
	case hrv < 70:
		return 3
	default:
		return 2
	}
}

// BuildDays turns parsed metrics into HealthDay candidates ordered by date. Days without any
// metric are dropped.
func BuildDays(userID uuid.UUID, days map[string]*DayMetrics) []*types.HealthDay {
	keys := make([]string, 0, len(days))
	for k, d := range days {
		if d == nil || d.Empty() {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*types.HealthDay, 0, len(keys))
	for _, k := range keys {
		date, err := time.ParseInLocation(health.DayKeyLayout, k, time.UTC)
		if err != nil {
			continue
		}
		d := days[k]
		row := &types.HealthDay{
			UserID:                 userID,
			Date:                   date,
			SleepHours:             d.SleepHours,
			HeartRateVariability:   d.HeartRateVariability,
			RestingHeartRate:       d.RestingHeartRate,
			Steps:                  d.Steps,
			ExerciseMinutes:        d.ExerciseMinutes,
			MindfulMinutes:         d.MindfulMinutes,
			ActiveCalories:         d.ActiveCalories,
			BasalCalories:          d.BasalCalories,
			DistanceWalkingRunning: d.DistanceWalkingRunning,
			FlightsClimbed:         d.FlightsClimbed,
			VO2Max:                 d.VO2Max,
			BloodOxygenSaturation:  d.BloodOxygenSaturation,
			RespiratoryRate:        d.RespiratoryRate,
		}
		if d.ActiveCalories != nil && d.BasalCalories != nil {
			total := *d.ActiveCalories + *d.BasalCalories
			row.TotalCalories = &total
		}
		if d.HeartRateVariability != nil {
			stress := StressFromHRV(*d.HeartRateVariability)
			row.StressLevel = &stress
		}
		out = append(out, row)
	}
	return out
}
