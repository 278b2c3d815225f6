package clinical

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	"github.com/yungbote/mindbridge-backend/internal/observability"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type NoteEvent = clinical.NoteEvent

type NotePublisher interface {
	PublishNoteCreated(ctx context.Context, ev NoteEvent) error
}

type UsecasesDeps struct {
	Log *logger.Logger

	Moods       repos.MoodEntryRepo
	Personality repos.PersonalitySnapshotRepo
	Notes       repos.ClinicalNoteRepo

	Rules Rules
	// Events is optional; publish failures are logged and never fail note creation.
	Events NotePublisher
	Now    func() time.Time
}

type Usecases struct {
	deps     UsecasesDeps
	analyzer Analyzer
	gatherer Gatherer
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if len(deps.Rules.CrisisKeywords) == 0 {
		deps.Rules = DefaultRules()
	}
	deps.Log = deps.Log.With("module", "clinical")
	return Usecases{
		deps:     deps,
		analyzer: NewAnalyzer(deps.Rules),
		gatherer: Gatherer{Moods: deps.Moods, Personality: deps.Personality, Now: deps.Now},
	}
}

func (u Usecases) GetUserContext(ctx context.Context, userID uuid.UUID) (UserContext, error) {
	if userID == uuid.Nil {
		return UserContext{}, fmt.Errorf("user context: %w", apperrors.ErrInvalidArgument)
	}
	uctx, err := u.gatherer.Gather(ctx, userID)
	if err != nil {
		return UserContext{}, fmt.Errorf("user context: %w", err)
	}
	return uctx, nil
}

func (u Usecases) Analyze(messages []chat.Message, uctx UserContext) Analysis {
	return u.analyzer.Analyze(messages, uctx)
}

// AnalyzeAndMaybeNote gathers context, classifies the conversation and stores a new note when
// one is warranted. It returns nil, nil when no note is needed.
func (u Usecases) AnalyzeAndMaybeNote(ctx context.Context, userID uuid.UUID, messages []chat.Message, trigger clinical.TriggerType) (note *types.ClinicalNote, err error) {
	if trigger != "" && !trigger.Valid() {
		return nil, fmt.Errorf("unknown trigger type %q: %w", trigger, apperrors.ErrInvalidArgument)
	}
	ctx, span := observability.StartSpan(ctx, "clinical.analyze",
		attribute.Int("messages", len(messages)),
	)
	defer func() { observability.EndSpan(span, err) }()

	uctx, err := u.GetUserContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	analysis := u.analyzer.Analyze(messages, uctx)
	span.SetAttributes(
		attribute.String("severity", string(analysis.Severity)),
		attribute.Bool("needs_note", analysis.NeedsNote),
	)
	observability.Current().ObserveRiskAnalysis(string(analysis.Severity), analysis.NeedsNote)
	if !analysis.NeedsNote {
		return nil, nil
	}

	draft := ComposeNote(userID, messages, analysis, uctx, trigger)
	draft.CreatedAt = u.deps.Now().UTC()
	note, err = u.deps.Notes.Create(dbctx.Context{Ctx: ctx}, draft)
	if err != nil {
		return nil, fmt.Errorf("save clinical note: %w", err)
	}
	observability.Current().IncClinicalNote(string(note.Severity), string(note.TriggerType))
	u.deps.Log.Info("clinical note created",
		"user_id", userID,
		"note_id", note.ID,
		"severity", note.Severity,
		"trigger_type", note.TriggerType,
	)
	u.publish(ctx, note)
	return note, nil
}

func (u Usecases) publish(ctx context.Context, note *types.ClinicalNote) {
	if u.deps.Events == nil {
		return
	}
	ev := NoteEvent{
		NoteID:      note.ID,
		UserID:      note.UserID,
		Severity:    note.Severity,
		TriggerType: note.TriggerType,
		CreatedAt:   note.CreatedAt,
	}
	if err := u.deps.Events.PublishNoteCreated(ctx, ev); err != nil {
		u.deps.Log.Warn("note event publish failed", "note_id", note.ID, "error", err)
	}
}

func (u Usecases) ListNotes(ctx context.Context, filter clinical.ListFilter) ([]*types.ClinicalNote, error) {
	return u.deps.Notes.List(dbctx.Context{Ctx: ctx}, filter)
}

func (u Usecases) GetNote(ctx context.Context, id uuid.UUID) (*types.ClinicalNote, error) {
	return u.deps.Notes.GetByID(dbctx.Context{Ctx: ctx}, id)
}

// ReviewNote marks a note reviewed. Only review fields change.
func (u Usecases) ReviewNote(ctx context.Context, id uuid.UUID, reviewedBy, notes string) (*types.ClinicalNote, error) {
	if reviewedBy == "" {
		return nil, fmt.Errorf("reviewer required: %w", apperrors.ErrInvalidArgument)
	}
	note, err := u.deps.Notes.Review(dbctx.Context{Ctx: ctx}, id, clinical.Review{
		ReviewedBy: reviewedBy,
		Notes:      notes,
		At:         u.deps.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	u.deps.Log.Info("clinical note reviewed", "note_id", id, "reviewer", reviewedBy)
	return note, nil
}
