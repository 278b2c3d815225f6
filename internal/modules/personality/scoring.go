package personality

import (
	"fmt"
	"math"

	domain "github.com/yungbote/mindbridge-backend/internal/domain/personality"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
)

// Answers are on a 1-5 Likert scale, so trait averages share that range.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

var knownTraits = func() map[string]bool {
	m := make(map[string]bool, len(domain.Traits))
	for _, t := range domain.Traits {
		m[t] = true
	}
	return m
}()

// Percentile maps a 1-5 average onto 0-100.
func Percentile(avg float64) int {
	return int(math.Round((avg - MinScore) / (MaxScore - MinScore) * 100))
}

func Interpret(trait string, percentile int) string {
	switch {
	case percentile >= 75:
		return fmt.Sprintf("High %s: you tend to ...", trait)
	case percentile >= 50:
		return fmt.Sprintf("Moderately high %s: you often ...", trait)
	case percentile >= 25:
		return fmt.Sprintf("Moderately low %s: you sometimes ...", trait)
	default:
		return fmt.Sprintf("Low %s: you may ...", trait)
	}
}

// Score turns per-trait averages into stored results. Unknown traits and out-of-range
// averages are rejected; traits absent from averages are left out.
func Score(averages map[string]float64) (map[string]domain.TraitResult, error) {
	if len(averages) == 0 {
		return nil, fmt.Errorf("no trait scores: %w", apperrors.ErrInvalidArgument)
	}
	out := make(map[string]domain.TraitResult, len(averages))
	for trait, avg := range averages {
		if !knownTraits[trait] {
			return nil, fmt.Errorf("unknown trait %q: %w", trait, apperrors.ErrInvalidArgument)
		}
		if math.IsNaN(avg) || avg < MinScore || avg > MaxScore {
			return nil, fmt.Errorf("%s score %v outside %v-%v: %w", trait, avg, MinScore, MaxScore, apperrors.ErrInvalidArgument)
		}
		p := Percentile(avg)
		out[trait] = domain.TraitResult{
			Score:          math.Round(avg*100) / 100,
			Percentile:     p,
			Interpretation: Interpret(trait, p),
		}
	}
	return out, nil
}
