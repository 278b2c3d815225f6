package clinical

import (
	"testing"

	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
)

func userMsgs(texts ...string) []chat.Message {
	out := make([]chat.Message, 0, len(texts)*2)
	for _, t := range texts {
		out = append(out, chat.Message{Role: chat.RoleUser, Content: t})
		out = append(out, chat.Message{Role: chat.RoleAssistant, Content: "I hear you. I feel hopeless sometimes too."})
	}
	return out
}

func f64(v float64) *float64 { return &v }

func lowMoodContext() UserContext {
	return UserContext{
		MoodData:          &MoodData{RecentMoods: []int{2, 3}, AverageMood: 2.5, AverageStress: f64(9), TrendDirection: TrendStable},
		PersonalityTraits: map[string]float64{"Neuroticism": 4.6},
	}
}

func TestAnalyzeCrisisAlwaysUrgent(t *testing.T) {
	a := NewAnalyzer(DefaultRules())
	contexts := []UserContext{{}, lowMoodContext(), {MoodData: &MoodData{AverageMood: 9, RecentMoods: []int{9, 9}}}}
	for i, uctx := range contexts {
		got := a.Analyze(userMsgs("I want to end my life"), uctx)
		if got.Severity != clinical.SeverityUrgent || !got.NeedsNote {
			t.Fatalf("context %d: severity=%s needsNote=%v", i, got.Severity, got.NeedsNote)
		}
		if len(got.FlaggedKeywords) == 0 || got.FlaggedKeywords[0] != "end my life" {
			t.Fatalf("context %d: flagged=%v", i, got.FlaggedKeywords)
		}
		p := got.ConcerningPatterns[0]
		if p.Pattern != "Crisis language detected" || p.Confidence != 0.95 || p.Evidence != `User mentioned: "end my life"` {
			t.Fatalf("context %d: pattern=%+v", i, p)
		}
	}
}

func TestAnalyzeNoUserMessages(t *testing.T) {
	a := NewAnalyzer(DefaultRules())
	for _, msgs := range [][]chat.Message{nil, {{Role: chat.RoleAssistant, Content: "suicide hotline is 988"}}} {
		got := a.Analyze(msgs, lowMoodContext())
		if got.Severity != clinical.SeverityLow || got.NeedsNote {
			t.Fatalf("severity=%s needsNote=%v", got.Severity, got.NeedsNote)
		}
		if got.FlaggedKeywords == nil || len(got.FlaggedKeywords) != 0 || got.ConcerningPatterns == nil || len(got.ConcerningPatterns) != 0 {
			t.Fatalf("expected empty non-nil arrays, got %v %v", got.FlaggedKeywords, got.ConcerningPatterns)
		}
	}
}

func TestAnalyzeHighConcern(t *testing.T) {
	a := NewAnalyzer(DefaultRules())

	got := a.Analyze(userMsgs("I'm so depressed and anxious", "I have insomnia"), UserContext{})
	if got.Severity != clinical.SeverityHigh || !got.NeedsNote {
		t.Fatalf("severity=%s needsNote=%v", got.Severity, got.NeedsNote)
	}
	if len(got.ConcerningPatterns) != 1 || got.ConcerningPatterns[0].Evidence != "3 concerning keywords detected" {
		t.Fatalf("patterns=%+v", got.ConcerningPatterns)
	}

	below := a.Analyze(userMsgs("feeling anxious", "bit of insomnia"), UserContext{})
	if below.Severity != clinical.SeverityLow || below.NeedsNote {
		t.Fatalf("below threshold: severity=%s needsNote=%v", below.Severity, below.NeedsNote)
	}
	if len(below.FlaggedKeywords) != 2 {
		t.Fatalf("below-threshold matches still flagged, got %v", below.FlaggedKeywords)
	}

	both := a.Analyze(userMsgs("depressed, anxious, worthless and suicidal"), UserContext{})
	if both.Severity != clinical.SeverityUrgent {
		t.Fatalf("urgent must not drop to high, got %s", both.Severity)
	}
	for _, p := range both.ConcerningPatterns {
		if p.Pattern == "Multiple mental health concerns" {
			t.Fatalf("no high-concern pattern once urgent")
		}
	}
	if len(both.FlaggedKeywords) != 4 {
		t.Fatalf("flagged=%v", both.FlaggedKeywords)
	}
}

func TestAnalyzeMoodAndStress(t *testing.T) {
	a := NewAnalyzer(DefaultRules())

	got := a.Analyze(userMsgs("hello"), lowMoodContext())
	if got.Severity != clinical.SeverityMedium || len(got.ConcerningPatterns) != 1 {
		t.Fatalf("severity=%s patterns=%+v", got.Severity, got.ConcerningPatterns)
	}
	if p := got.ConcerningPatterns[0]; p.Pattern != "Persistently low mood" || p.Evidence != "Average mood: 2.5/10 over last 7 days" {
		t.Fatalf("pattern=%+v", p)
	}

	stressed := UserContext{MoodData: &MoodData{AverageMood: 6, AverageStress: f64(8.5), RecentMoods: []int{6}}}
	got = a.Analyze(userMsgs("hello"), stressed)
	if got.Severity != clinical.SeverityMedium || got.ConcerningPatterns[0].Pattern != "High stress levels" {
		t.Fatalf("stress: severity=%s patterns=%+v", got.Severity, got.ConcerningPatterns)
	}

	noStress := UserContext{MoodData: &MoodData{AverageMood: 6, RecentMoods: []int{6}}}
	got = a.Analyze(userMsgs("hello"), noStress)
	if got.NeedsNote {
		t.Fatalf("missing stress average must not fire")
	}
}

func TestAnalyzeEngagement(t *testing.T) {
	a := NewAnalyzer(DefaultRules())
	got := a.Analyze(userMsgs("hi", "work was fine", "had lunch", "went for a walk", "thanks"), UserContext{})
	if got.Severity != clinical.SeverityLow || !got.NeedsNote {
		t.Fatalf("severity=%s needsNote=%v", got.Severity, got.NeedsNote)
	}
	if p := got.ConcerningPatterns[0]; p.Pattern != "Extended conversation" || p.Confidence != 0.60 || p.Evidence != "5 messages exchanged - routine check-in" {
		t.Fatalf("pattern=%+v", p)
	}

	four := a.Analyze(userMsgs("a", "b", "c", "d"), UserContext{})
	if four.NeedsNote {
		t.Fatalf("4 messages should not need a note")
	}
}

// Every fired pattern implies a minimum severity; the verdict is never below any of them.
func TestAnalyzeSeverityMonotonic(t *testing.T) {
	implied := map[string]clinical.Severity{
		"Crisis language detected":        clinical.SeverityUrgent,
		"Multiple mental health concerns": clinical.SeverityHigh,
		"Persistently low mood":           clinical.SeverityMedium,
		"High stress levels":              clinical.SeverityMedium,
		"Extended conversation":           clinical.SeverityLow,
	}
	texts := [][]string{
		{"hello"},
		{"a", "b", "c", "d", "e"},
		{"depressed", "anxious", "nightmares"},
		{"I feel hopeless"},
		{"depressed", "anxious", "nightmares", "hopeless", "fine"},
	}
	contexts := []UserContext{{}, lowMoodContext(), {MoodData: &MoodData{AverageMood: 7, AverageStress: f64(9)}}}
	a := NewAnalyzer(DefaultRules())
	for _, tx := range texts {
		for _, uctx := range contexts {
			got := a.Analyze(userMsgs(tx...), uctx)
			for _, p := range got.ConcerningPatterns {
				if got.Severity.Rank() < implied[p.Pattern].Rank() {
					t.Fatalf("texts=%v: severity %s below pattern %q", tx, got.Severity, p.Pattern)
				}
			}
			if len(got.ConcerningPatterns) > 0 != got.NeedsNote {
				t.Fatalf("texts=%v: needsNote=%v with %d patterns", tx, got.NeedsNote, len(got.ConcerningPatterns))
			}
		}
	}
}
