package health

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/mindbridge-backend/internal/domain/health"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
)

const (
	// DefaultWindow bounds which records are aggregated: anything that started earlier is skipped.
	DefaultWindow = 90 * 24 * time.Hour

	readChunkSize = 1 << 20
	dateLayout    = "2006-01-02 15:04:05 -0700"
)

type valueSource int

const (
	fromValue valueSource = iota
	fromIntervalHours
	fromIntervalMinutes
	fromFraction
)

type route struct {
	metric Metric
	source valueSource
}

var recordRoutes = map[string]route{
	"HKCategoryTypeIdentifierSleepAnalysis":            {MetricSleep, fromIntervalHours},
	"HKQuantityTypeIdentifierHeartRateVariabilitySDNN": {MetricHRV, fromValue},
	"HKQuantityTypeIdentifierRestingHeartRate":         {MetricRestingHeartRate, fromValue},
	"HKQuantityTypeIdentifierStepCount":                {MetricSteps, fromValue},
	"HKQuantityTypeIdentifierAppleExerciseTime":        {MetricExercise, fromValue},
	"HKCategoryTypeIdentifierMindfulSession":           {MetricMindful, fromIntervalMinutes},
	"HKQuantityTypeIdentifierActiveEnergyBurned":       {MetricActiveCalories, fromValue},
	"HKQuantityTypeIdentifierBasalEnergyBurned":        {MetricBasalCalories, fromValue},
	"HKQuantityTypeIdentifierDistanceWalkingRunning":   {MetricDistance, fromValue},
	"HKQuantityTypeIdentifierFlightsClimbed":           {MetricFlightsClimbed, fromValue},
	"HKQuantityTypeIdentifierVO2Max":                   {MetricVO2Max, fromValue},
	"HKQuantityTypeIdentifierOxygenSaturation":         {MetricBloodOxygen, fromFraction},
	"HKQuantityTypeIdentifierRespiratoryRate":          {MetricRespiratoryRate, fromValue},
}

// Parser streams an export document into per-day metrics.
type Parser struct {
	Now    func() time.Time
	Window time.Duration
}

type ParseStats struct {
	Scanned   int
	Processed int
}

func (p Parser) cutoff() time.Time {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	window := p.Window
	if window <= 0 {
		window = DefaultWindow
	}
	return now().Add(-window)
}

// Parse reads Record elements in document order and reduces them per UTC day. Malformed
// markup aborts with a ParseError and no result.
func (p Parser) Parse(ctx context.Context, r io.Reader) (map[string]*DayMetrics, ParseStats, error) {
	var stats ParseStats
	cutoff := p.cutoff()
	dec := xml.NewDecoder(bufio.NewReaderSize(r, readChunkSize))
	acc := map[string]*dayAccumulator{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, &apperrors.ParseError{Offset: dec.InputOffset(), Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Record" {
			continue
		}
		stats.Scanned++
		if stats.Scanned%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		rec := readRecord(start.Attr)
		rt, known := recordRoutes[rec.typ]
		if !known {
			continue
		}
		begin, err := time.Parse(dateLayout, rec.start)
		if err != nil || begin.Before(cutoff) {
			continue
		}
		v, ok := rec.valueFor(rt.source, begin)
		if !ok {
			continue
		}
		key := begin.UTC().Format(health.DayKeyLayout)
		day := acc[key]
		if day == nil {
			day = &dayAccumulator{}
			acc[key] = day
		}
		day.add(rt.metric, v)
		stats.Processed++
	}

	out := make(map[string]*DayMetrics, len(acc))
	for key, day := range acc {
		out[key] = day.reduce()
	}
	return out, stats, nil
}

type record struct {
	typ   string
	start string
	end   string
	value string
}

func readRecord(attrs []xml.Attr) record {
	var rec record
	for _, a := range attrs {
		switch a.Name.Local {
		case "type":
			rec.typ = a.Value
		case "startDate":
			rec.start = a.Value
		case "endDate":
			rec.end = a.Value
		case "value":
			rec.value = a.Value
		}
	}
	return rec
}

func (rec record) valueFor(src valueSource, begin time.Time) (float64, bool) {
	switch src {
	case fromIntervalHours, fromIntervalMinutes:
		end, err := time.Parse(dateLayout, rec.end)
		if err != nil {
			return 0, false
		}
		d := end.Sub(begin)
		if src == fromIntervalHours {
			return d.Hours(), true
		}
		return d.Minutes(), true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec.value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if src == fromFraction && v <= 1 {
		v *= 100
	}
	return v, true
}
