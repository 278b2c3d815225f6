package clinical

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	"github.com/yungbote/mindbridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type NoteComposer interface {
	AnalyzeAndMaybeNote(ctx context.Context, userID uuid.UUID, messages []chat.Message, trigger clinical.TriggerType) (*types.ClinicalNote, error)
}

// NoteDispatcher runs note generation off the request path. Each task is detached from the
// request's cancellation, logs its own failures, and is tracked so shutdown can drain it.
type NoteDispatcher struct {
	composer NoteComposer
	log      *logger.Logger
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewNoteDispatcher(composer NoteComposer, log *logger.Logger, timeout time.Duration) *NoteDispatcher {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &NoteDispatcher{composer: composer, log: log.With("component", "NoteDispatcher"), timeout: timeout}
}

// Dispatch starts one background task and returns immediately. After Shutdown the task is
// dropped and logged instead.
func (d *NoteDispatcher) Dispatch(ctx context.Context, userID uuid.UUID, messages []chat.Message, trigger clinical.TriggerType) {
	msgs := append([]chat.Message(nil), messages...)
	taskCtx := context.WithoutCancel(ctx)
	log := d.log.With("user_id", userID)
	if td := ctxutil.GetTraceData(ctx); td != nil {
		log = log.With("trace_id", td.TraceID, "request_id", td.RequestID)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		log.Error("note generation dropped: dispatcher is shut down", "trigger", trigger, "messages", len(msgs))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("note generation panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			}
		}()
		runCtx, cancel := context.WithTimeout(taskCtx, d.timeout)
		defer cancel()

		note, err := d.composer.AnalyzeAndMaybeNote(runCtx, userID, msgs, trigger)
		if err != nil {
			log.Error("note generation failed", "error", err)
			return
		}
		if note != nil {
			log.Debug("note generation finished", "note_id", note.ID, "severity", note.Severity)
		}
	}()
}

// Wait blocks until in-flight tasks finish or ctx is done.
func (d *NoteDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks, then waits like Wait.
func (d *NoteDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Wait(ctx)
}
