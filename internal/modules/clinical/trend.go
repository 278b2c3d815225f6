package clinical

const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient data"
)

// MoodTrend compares the mean of the older half of moods with the newer half. moods must be
// oldest first; with an odd length the extra point belongs to the newer half.
func MoodTrend(moods []int) string {
	if len(moods) < 2 {
		return TrendInsufficient
	}
	mid := len(moods) / 2
	diff := mean(moods[mid:]) - mean(moods[:mid])
	switch {
	case diff > 1:
		return TrendImproving
	case diff < -1:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
