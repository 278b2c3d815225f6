package clinical

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	"github.com/yungbote/mindbridge-backend/internal/data/repos/testutil"
	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
)

var fixedNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingPublisher struct {
	mu     sync.Mutex
	events []NoteEvent
	err    error
}

func (p *recordingPublisher) PublishNoteCreated(_ context.Context, ev NoteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestUsecases(t *testing.T, pub NotePublisher) (Usecases, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	r := repos.New(db, testutil.Logger(t))
	uc := New(UsecasesDeps{
		Log:         testutil.Logger(t),
		Moods:       r.MoodEntry,
		Personality: r.PersonalitySnapshot,
		Notes:       r.ClinicalNote,
		Rules:       DefaultRules(),
		Events:      pub,
		Now:         clock,
	})
	return uc, db
}

func TestAnalyzeAndMaybeNoteRoutineCheckIn(t *testing.T) {
	pub := &recordingPublisher{}
	uc, _ := newTestUsecases(t, pub)
	ctx := context.Background()
	userID := uuid.New()

	note, err := uc.AnalyzeAndMaybeNote(ctx, userID, userMsgs("hi", "work was fine", "had lunch", "went for a walk", "thanks"), "")
	if err != nil {
		t.Fatalf("AnalyzeAndMaybeNote: %v", err)
	}
	if note == nil {
		t.Fatalf("expected a note")
	}
	if note.Severity != clinical.SeverityLow || note.TriggerType != clinical.TriggerConversationCount || note.Reviewed {
		t.Fatalf("note severity=%s trigger=%s reviewed=%v", note.Severity, note.TriggerType, note.Reviewed)
	}
	if recs := note.RecommendationList(); len(recs) != 3 || recs[0] != "Routine monitoring - patient engaged with self-care tools" {
		t.Fatalf("recommendations=%v", recs)
	}

	notes, err := uc.ListNotes(ctx, clinical.ListFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != note.ID {
		t.Fatalf("stored notes=%d", len(notes))
	}
	if len(pub.events) != 1 || pub.events[0].NoteID != note.ID {
		t.Fatalf("events=%+v", pub.events)
	}
}

func TestAnalyzeAndMaybeNoteNoNote(t *testing.T) {
	uc, _ := newTestUsecases(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	for _, msgs := range [][]chat.Message{nil, userMsgs("a", "b", "c", "d")} {
		note, err := uc.AnalyzeAndMaybeNote(ctx, userID, msgs, "")
		if err != nil || note != nil {
			t.Fatalf("note=%v err=%v", note, err)
		}
	}
	notes, err := uc.ListNotes(ctx, clinical.ListFilter{UserID: &userID})
	if err != nil || len(notes) != 0 {
		t.Fatalf("notes=%d err=%v", len(notes), err)
	}
}

func TestAnalyzeAndMaybeNoteCrisisWithContext(t *testing.T) {
	uc, db := newTestUsecases(t, &recordingPublisher{err: errors.New("bus down")})
	ctx := context.Background()
	userID := uuid.New()
	testutil.SeedMood(t, ctx, db, userID, fixedNow.Add(-48*time.Hour), 2, testutil.Ptr(8))
	testutil.SeedMood(t, ctx, db, userID, fixedNow.Add(-24*time.Hour), 3, nil)
	testutil.SeedPersonality(t, ctx, db, userID, fixedNow.Add(-72*time.Hour), map[string]float64{"Neuroticism": 4.5})

	note, err := uc.AnalyzeAndMaybeNote(ctx, userID, userMsgs("I keep thinking about suicide"), "")
	if err != nil {
		t.Fatalf("publish failures must not fail note creation: %v", err)
	}
	if note.Severity != clinical.SeverityUrgent || note.TriggerType != clinical.TriggerCrisisKeywords {
		t.Fatalf("severity=%s trigger=%s", note.Severity, note.TriggerType)
	}
	for _, want := range []string{"FLAGGED CONTENT: suicide", "- Average Mood: 2.5/10", "- Average Stress: 8.0/10", "- Neuroticism: 4.5/5"} {
		if !strings.Contains(note.Summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, note.Summary)
		}
	}
	if string(note.MoodData) == "null" {
		t.Fatalf("mood data should be stored")
	}
}

func TestAnalyzeAndMaybeNoteTrigger(t *testing.T) {
	uc, _ := newTestUsecases(t, nil)
	ctx := context.Background()
	msgs := userMsgs("I feel worthless", "such a failure", "ready to give up")

	note, err := uc.AnalyzeAndMaybeNote(ctx, uuid.New(), msgs, clinical.TriggerManual)
	if err != nil {
		t.Fatalf("AnalyzeAndMaybeNote: %v", err)
	}
	if note.TriggerType != clinical.TriggerManual || note.Severity != clinical.SeverityHigh {
		t.Fatalf("trigger=%s severity=%s", note.TriggerType, note.Severity)
	}

	if _, err := uc.AnalyzeAndMaybeNote(ctx, uuid.New(), msgs, "bogus"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGetUserContext(t *testing.T) {
	uc, db := newTestUsecases(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	empty, err := uc.GetUserContext(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserContext: %v", err)
	}
	if empty.MoodData != nil || empty.PersonalityTraits != nil {
		t.Fatalf("expected nil context, got %+v", empty)
	}

	testutil.SeedMood(t, ctx, db, userID, fixedNow.Add(-8*24*time.Hour), 10, nil)
	testutil.SeedMood(t, ctx, db, userID, fixedNow.Add(-5*24*time.Hour), 2, nil)
	testutil.SeedMood(t, ctx, db, userID, fixedNow.Add(-4*24*time.Hour), 3, nil)
	testutil.SeedMood(t, ctx, db, userID, fixedNow.Add(-2*24*time.Hour), 6, nil)
	testutil.SeedMood(t, ctx, db, userID, fixedNow.Add(-1*24*time.Hour), 7, nil)
	testutil.SeedPersonality(t, ctx, db, userID, fixedNow.Add(-10*24*time.Hour), map[string]float64{"Openness": 2})
	testutil.SeedPersonality(t, ctx, db, userID, fixedNow.Add(-1*24*time.Hour), map[string]float64{"Openness": 4.2})

	got, err := uc.GetUserContext(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserContext: %v", err)
	}
	md := got.MoodData
	if md == nil || len(md.RecentMoods) != 4 || md.RecentMoods[0] != 2 || md.RecentMoods[3] != 7 {
		t.Fatalf("mood data=%+v", md)
	}
	if md.AverageMood != 4.5 || md.AverageStress != nil || md.TrendDirection != TrendImproving {
		t.Fatalf("mood data=%+v", md)
	}
	if got.PersonalityTraits["Openness"] != 4.2 {
		t.Fatalf("traits=%v", got.PersonalityTraits)
	}

	if _, err := uc.GetUserContext(ctx, uuid.Nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestReviewNote(t *testing.T) {
	uc, _ := newTestUsecases(t, nil)
	ctx := context.Background()
	note, err := uc.AnalyzeAndMaybeNote(ctx, uuid.New(), userMsgs("I want to die"), "")
	if err != nil || note == nil {
		t.Fatalf("note=%v err=%v", note, err)
	}

	reviewed, err := uc.ReviewNote(ctx, note.ID, "dr.lee", "called patient")
	if err != nil {
		t.Fatalf("ReviewNote: %v", err)
	}
	if !reviewed.Reviewed || reviewed.ReviewedBy != "dr.lee" || reviewed.ReviewNotes != "called patient" || reviewed.ReviewedAt == nil {
		t.Fatalf("review fields=%+v", reviewed)
	}
	if reviewed.Summary != note.Summary || reviewed.Severity != note.Severity || string(reviewed.Recommendations) != string(note.Recommendations) {
		t.Fatalf("review must not touch note content")
	}

	if _, err := uc.ReviewNote(ctx, note.ID, "", "x"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := uc.ReviewNote(ctx, uuid.New(), "dr.lee", ""); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	unreviewed := false
	open, err := uc.ListNotes(ctx, clinical.ListFilter{Reviewed: &unreviewed})
	if err != nil || len(open) != 0 {
		t.Fatalf("open notes=%d err=%v", len(open), err)
	}
}
