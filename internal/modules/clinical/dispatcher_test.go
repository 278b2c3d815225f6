package clinical

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type composerFunc func(ctx context.Context, userID uuid.UUID, messages []chat.Message, trigger clinical.TriggerType) (*types.ClinicalNote, error)

func (f composerFunc) AnalyzeAndMaybeNote(ctx context.Context, userID uuid.UUID, messages []chat.Message, trigger clinical.TriggerType) (*types.ClinicalNote, error) {
	return f(ctx, userID, messages, trigger)
}

func TestDispatchOutlivesRequest(t *testing.T) {
	var sawLive atomic.Bool
	d := NewNoteDispatcher(composerFunc(func(ctx context.Context, _ uuid.UUID, msgs []chat.Message, _ clinical.TriggerType) (*types.ClinicalNote, error) {
		sawLive.Store(ctx.Err() == nil && len(msgs) == 2)
		return &types.ClinicalNote{ID: uuid.New()}, nil
	}), logger.Nop(), time.Second)

	reqCtx, cancel := context.WithCancel(context.Background())
	msgs := userMsgs("hello")
	cancel()
	d.Dispatch(reqCtx, uuid.New(), msgs, "")
	msgs[0].Content = "mutated after dispatch"

	waitCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	if err := d.Wait(waitCtx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !sawLive.Load() {
		t.Fatalf("task should run with a live context after the request was cancelled")
	}
}

func TestDispatchSurvivesFailures(t *testing.T) {
	var calls atomic.Int32
	d := NewNoteDispatcher(composerFunc(func(context.Context, uuid.UUID, []chat.Message, clinical.TriggerType) (*types.ClinicalNote, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("db down")
		}
		panic("boom")
	}), nil, 0)

	d.Dispatch(context.Background(), uuid.New(), nil, "")
	d.Dispatch(context.Background(), uuid.New(), nil, "")

	waitCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	if err := d.Wait(waitCtx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls=%d", calls.Load())
	}
}

func TestDispatcherWaitHonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	d := NewNoteDispatcher(composerFunc(func(context.Context, uuid.UUID, []chat.Message, clinical.TriggerType) (*types.ClinicalNote, error) {
		<-release
		return nil, nil
	}), logger.Nop(), time.Minute)
	d.Dispatch(context.Background(), uuid.New(), nil, "")

	waitCtx, done := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer done()
	if err := d.Wait(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	close(release)
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestShutdownDrainsInFlightAndRejectsNew(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	d := NewNoteDispatcher(composerFunc(func(context.Context, uuid.UUID, []chat.Message, clinical.TriggerType) (*types.ClinicalNote, error) {
		calls.Add(1)
		<-release
		return nil, nil
	}), logger.Nop(), time.Minute)
	d.Dispatch(context.Background(), uuid.New(), nil, "")

	done := make(chan error, 1)
	go func() { done <- d.Shutdown(context.Background()) }()
	select {
	case err := <-done:
		t.Fatalf("Shutdown returned before in-flight task finished: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	d.Dispatch(context.Background(), uuid.New(), nil, "")
	if err := d.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls=%d, dispatch after Shutdown should be dropped", calls.Load())
	}
}
