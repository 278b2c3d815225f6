package clinical

import (
	"fmt"
	"strings"

	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
)

// Analysis is the classifier verdict for one conversation.
type Analysis struct {
	Severity           clinical.Severity            `json:"severity"`
	FlaggedKeywords    []string                     `json:"flaggedKeywords"`
	ConcerningPatterns []clinical.ConcerningPattern `json:"concerningPatterns"`
	NeedsNote          bool                         `json:"needsNote"`
}

type analysisInput struct {
	text      string
	userCount int
	ctx       UserContext
}

// finding is what one rule contributes. Severity is folded with MaxSeverity, so a rule can
// never lower the running verdict.
type finding struct {
	severity  clinical.Severity
	keywords  []string
	patterns  []clinical.ConcerningPattern
	needsNote bool
}

type rule struct {
	name string
	eval func(state Analysis, in analysisInput) (finding, bool)
}

// Analyzer is a deterministic, ordered rule list over the user-authored text.
type Analyzer struct {
	rules []rule
}

func NewAnalyzer(r Rules) Analyzer {
	return Analyzer{rules: []rule{
		crisisRule(r),
		highConcernRule(r),
		lowMoodRule(r),
		highStressRule(r),
		engagementRule(r),
	}}
}

func (a Analyzer) Analyze(messages []chat.Message, uctx UserContext) Analysis {
	out := Analysis{
		Severity:           clinical.SeverityLow,
		FlaggedKeywords:    []string{},
		ConcerningPatterns: []clinical.ConcerningPattern{},
	}
	users := chat.UserMessages(messages)
	if len(users) == 0 {
		return out
	}
	parts := make([]string, 0, len(users))
	for _, m := range users {
		parts = append(parts, strings.ToLower(m.Content))
	}
	in := analysisInput{text: strings.Join(parts, " "), userCount: len(users), ctx: uctx}

	for _, r := range a.rules {
		f, ok := r.eval(out, in)
		if !ok {
			continue
		}
		out.Severity = clinical.MaxSeverity(out.Severity, f.severity)
		out.FlaggedKeywords = append(out.FlaggedKeywords, f.keywords...)
		out.ConcerningPatterns = append(out.ConcerningPatterns, f.patterns...)
		out.NeedsNote = out.NeedsNote || f.needsNote
	}
	return out
}

func matchKeywords(text string, lexicon []string) []string {
	var hits []string
	for _, kw := range lexicon {
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func crisisRule(r Rules) rule {
	return rule{name: "crisis", eval: func(_ Analysis, in analysisInput) (finding, bool) {
		hits := matchKeywords(in.text, r.CrisisKeywords)
		if len(hits) == 0 {
			return finding{}, false
		}
		f := finding{severity: clinical.SeverityUrgent, keywords: hits, needsNote: true}
		for _, kw := range hits {
			f.patterns = append(f.patterns, clinical.ConcerningPattern{
				Pattern:    "Crisis language detected",
				Confidence: 0.95,
				Evidence:   fmt.Sprintf("User mentioned: %q", kw),
			})
		}
		return f, true
	}}
}

func highConcernRule(r Rules) rule {
	return rule{name: "high_concern", eval: func(state Analysis, in analysisInput) (finding, bool) {
		hits := matchKeywords(in.text, r.HighConcernKeywords)
		if len(hits) == 0 {
			return finding{}, false
		}
		f := finding{severity: clinical.SeverityLow, keywords: hits}
		if len(hits) >= r.Thresholds.HighConcernMatches && state.Severity != clinical.SeverityUrgent {
			f.severity = clinical.SeverityHigh
			f.needsNote = true
			f.patterns = []clinical.ConcerningPattern{{
				Pattern:    "Multiple mental health concerns",
				Confidence: 0.80,
				Evidence:   fmt.Sprintf("%d concerning keywords detected", len(hits)),
			}}
		}
		return f, true
	}}
}

func lowMoodRule(r Rules) rule {
	return rule{name: "low_mood", eval: func(state Analysis, in analysisInput) (finding, bool) {
		md := in.ctx.MoodData
		if md == nil || state.Severity != clinical.SeverityLow || md.AverageMood >= r.Thresholds.LowMoodBelow {
			return finding{}, false
		}
		return finding{
			severity:  clinical.SeverityMedium,
			needsNote: true,
			patterns: []clinical.ConcerningPattern{{
				Pattern:    "Persistently low mood",
				Confidence: 0.75,
				Evidence:   fmt.Sprintf("Average mood: %.1f/10 over last 7 days", md.AverageMood),
			}},
		}, true
	}}
}

func highStressRule(r Rules) rule {
	return rule{name: "high_stress", eval: func(state Analysis, in analysisInput) (finding, bool) {
		md := in.ctx.MoodData
		if md == nil || md.AverageStress == nil || state.Severity != clinical.SeverityLow {
			return finding{}, false
		}
		if *md.AverageStress <= r.Thresholds.HighStressAbove {
			return finding{}, false
		}
		return finding{
			severity:  clinical.SeverityMedium,
			needsNote: true,
			patterns: []clinical.ConcerningPattern{{
				Pattern:    "High stress levels",
				Confidence: 0.75,
				Evidence:   fmt.Sprintf("Average stress: %.1f/10 over last 7 days", *md.AverageStress),
			}},
		}, true
	}}
}

func engagementRule(r Rules) rule {
	return rule{name: "engagement", eval: func(state Analysis, in analysisInput) (finding, bool) {
		if state.NeedsNote || in.userCount < r.Thresholds.ConversationMessages {
			return finding{}, false
		}
		return finding{
			severity:  clinical.SeverityLow,
			needsNote: true,
			patterns: []clinical.ConcerningPattern{{
				Pattern:    "Extended conversation",
				Confidence: 0.60,
				Evidence:   fmt.Sprintf("%d messages exchanged - routine check-in", in.userCount),
			}},
		}, true
	}}
}
