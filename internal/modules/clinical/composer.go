package clinical

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
)

const (
	excerptMessages     = 3
	excerptChars        = 150
	contextMessageLimit = 10
)

var recommendationSets = map[clinical.Severity][]string{
	clinical.SeverityUrgent: {
		"IMMEDIATE INTERVENTION REQUIRED - Crisis risk identified",
		"Contact patient within 24 hours",
		"Assess suicide risk using Columbia Scale",
		"Consider emergency psychiatric evaluation",
		"Ensure patient has crisis hotline numbers (988)",
	},
	clinical.SeverityHigh: {
		"Schedule follow-up within 1 week",
		"Review medication efficacy if applicable",
		"Consider referral to specialist or intensive therapy",
		"Monitor mood patterns closely",
	},
	clinical.SeverityMedium: {
		"Schedule routine follow-up within 2-4 weeks",
		"Continue current treatment plan",
		"Encourage consistent mood tracking",
		"Review coping strategies and skills practice",
	},
	clinical.SeverityLow: {
		"Routine monitoring - patient engaged with self-care tools",
		"Continue encouraging app usage",
		"Follow standard appointment schedule",
	},
}

// Recommendations depend on the severity tier alone, never on which rules fired.
func Recommendations(sev clinical.Severity) []string {
	set, ok := recommendationSets[sev]
	if !ok {
		set = recommendationSets[clinical.SeverityLow]
	}
	return append([]string(nil), set...)
}

// DeriveTrigger picks a trigger label when the caller did not supply one.
func DeriveTrigger(a Analysis) clinical.TriggerType {
	switch a.Severity {
	case clinical.SeverityUrgent, clinical.SeverityHigh:
		return clinical.TriggerCrisisKeywords
	case clinical.SeverityMedium:
		return clinical.TriggerMoodPattern
	default:
		return clinical.TriggerConversationCount
	}
}

// BuildSummary renders the clinician-facing text block. Sections appear in a fixed order and
// optional ones are omitted when empty.
func BuildSummary(messages []chat.Message, a Analysis, uctx UserContext) string {
	users := chat.UserMessages(messages)
	var b strings.Builder

	fmt.Fprintf(&b, "Patient engaged with AI mental health assistant (%d exchanges).\n\n", len(users))

	if len(a.FlaggedKeywords) > 0 {
		fmt.Fprintf(&b, "FLAGGED CONTENT: %s\n\n", strings.Join(a.FlaggedKeywords, ", "))
	}

	if md := uctx.MoodData; md != nil {
		stress := "n/a"
		if md.AverageStress != nil {
			stress = fmt.Sprintf("%.1f/10", *md.AverageStress)
		}
		b.WriteString("MOOD DATA (last 7 days):\n")
		fmt.Fprintf(&b, "- Average Mood: %.1f/10\n", md.AverageMood)
		fmt.Fprintf(&b, "- Average Stress: %s\n", stress)
		fmt.Fprintf(&b, "- Trend: %s\n\n", md.TrendDirection)
	}

	if len(uctx.PersonalityTraits) > 0 {
		b.WriteString("PERSONALITY PROFILE:\n")
		for _, trait := range orderedTraits(uctx.PersonalityTraits) {
			fmt.Fprintf(&b, "- %s: %s/5\n", trait, strconv.FormatFloat(uctx.PersonalityTraits[trait], 'f', -1, 64))
		}
		b.WriteString("\n")
	}

	b.WriteString("RECENT CONVERSATION:\n")
	lines := make([]string, 0, excerptMessages)
	for i, m := range users {
		if i >= excerptMessages {
			break
		}
		lines = append(lines, fmt.Sprintf("[%d] User: %s", i+1, truncate(m.Content, excerptChars)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	if len(a.ConcerningPatterns) > 0 {
		b.WriteString("CONCERNING PATTERNS IDENTIFIED:\n")
		for _, p := range a.ConcerningPatterns {
			fmt.Fprintf(&b, "- %s (%.0f%% confidence): %s\n", p.Pattern, p.Confidence*100, p.Evidence)
		}
	}
	return b.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// ComposeNote builds the unsaved note for an analysis that needs one.
func ComposeNote(userID uuid.UUID, messages []chat.Message, a Analysis, uctx UserContext, trigger clinical.TriggerType) *types.ClinicalNote {
	if trigger == "" {
		trigger = DeriveTrigger(a)
	}
	excerpt := messages
	if len(excerpt) > contextMessageLimit {
		excerpt = excerpt[:contextMessageLimit]
	}
	var traits any
	if uctx.PersonalityTraits != nil {
		traits = uctx.PersonalityTraits
	}
	var mood any
	if uctx.MoodData != nil {
		mood = uctx.MoodData
	}
	return &types.ClinicalNote{
		UserID:              userID,
		Severity:            a.Severity,
		TriggerType:         trigger,
		Summary:             BuildSummary(messages, a, uctx),
		ConversationContext: clinical.JSON(excerpt),
		Recommendations:     clinical.JSON(Recommendations(a.Severity)),
		ConcerningPatterns:  clinical.JSON(a.ConcerningPatterns),
		MoodData:            clinical.JSON(mood),
		PersonalityTraits:   clinical.JSON(traits),
		FlaggedKeywords:     clinical.JSON(a.FlaggedKeywords),
		Reviewed:            false,
	}
}
