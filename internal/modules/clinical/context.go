package clinical

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/personality"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
)

const contextWindow = 7 * 24 * time.Hour

type MoodData struct {
	RecentMoods []int   `json:"recentMoods"`
	AverageMood float64 `json:"averageMood"`
	// AverageStress is nil when none of the recent entries recorded stress.
	AverageStress  *float64 `json:"averageStress"`
	TrendDirection string   `json:"trendDirection"`
}

// UserContext is what the classifier knows about a user beyond the conversation. A nil field
// means no information, not an absence of risk.
type UserContext struct {
	MoodData          *MoodData          `json:"moodData"`
	PersonalityTraits map[string]float64 `json:"personalityTraits"`
}

// Gatherer loads the last week of moods and the latest personality snapshot concurrently.
type Gatherer struct {
	Moods       repos.MoodEntryRepo
	Personality repos.PersonalitySnapshotRepo
	Now         func() time.Time
}

func (g Gatherer) Gather(ctx context.Context, userID uuid.UUID) (UserContext, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	since := now().Add(-contextWindow)

	var (
		moods []*types.MoodEntry
		snap  *types.PersonalitySnapshot
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		moods, err = g.Moods.ListSince(dbctx.Context{Ctx: egctx}, userID, since, false)
		if err != nil {
			return fmt.Errorf("recent moods: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		snap, err = g.Personality.Latest(dbctx.Context{Ctx: egctx}, userID)
		if err != nil {
			return fmt.Errorf("latest personality: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return UserContext{}, err
	}

	out := UserContext{MoodData: BuildMoodData(moods)}
	traits, err := TraitScores(snap)
	if err != nil {
		return UserContext{}, err
	}
	out.PersonalityTraits = traits
	return out, nil
}

// BuildMoodData summarizes entries ordered oldest first. No entries yields nil.
func BuildMoodData(entries []*types.MoodEntry) *MoodData {
	if len(entries) == 0 {
		return nil
	}
	md := &MoodData{RecentMoods: make([]int, 0, len(entries))}
	var moodSum, stressSum float64
	var stressN int
	for _, e := range entries {
		md.RecentMoods = append(md.RecentMoods, e.Mood)
		moodSum += float64(e.Mood)
		if e.StressLevel != nil {
			stressSum += float64(*e.StressLevel)
			stressN++
		}
	}
	md.AverageMood = moodSum / float64(len(entries))
	if stressN > 0 {
		avg := stressSum / float64(stressN)
		md.AverageStress = &avg
	}
	md.TrendDirection = MoodTrend(md.RecentMoods)
	return md
}

// TraitScores flattens a snapshot into trait -> raw score. No snapshot yields nil.
func TraitScores(snap *types.PersonalitySnapshot) (map[string]float64, error) {
	if snap == nil {
		return nil, nil
	}
	results, err := snap.TraitResults()
	if err != nil {
		return nil, fmt.Errorf("decode personality results: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(results))
	for name, r := range results {
		out[name] = r.Score
	}
	return out, nil
}

// orderedTraits lists trait names in Big Five order, then any others alphabetically.
func orderedTraits(traits map[string]float64) []string {
	out := make([]string, 0, len(traits))
	seen := map[string]bool{}
	for _, t := range personality.Traits {
		if _, ok := traits[t]; ok {
			out = append(out, t)
			seen[t] = true
		}
	}
	var rest []string
	for t := range traits {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
