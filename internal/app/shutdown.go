package app

import (
	"context"
	"time"

	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type noteDrainer interface {
	Shutdown(ctx context.Context) error
}

// runThenDrain blocks in run until it returns, then stops the note dispatcher and waits up to
// drain for its tasks. Requests still finishing inside run may dispatch notes, so the drain
// cannot start any earlier.
func runThenDrain(ctx context.Context, run func(context.Context) error, notes noteDrainer, drain time.Duration, log *logger.Logger) error {
	runErr := run(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := notes.Shutdown(drainCtx); err != nil {
		log.Warn("Clinical note tasks still running at shutdown", "error", err)
	}
	return runErr
}

// noteAlertLogger surfaces note-created events from the bus in the service log, at warn level
// for notes a clinician should see first.
func noteAlertLogger(log *logger.Logger) func(clinical.NoteEvent) {
	log = log.With("component", "NoteAlerts")
	return func(ev clinical.NoteEvent) {
		kv := []interface{}{
			"note_id", ev.NoteID,
			"user_id", ev.UserID,
			"severity", ev.Severity,
			"trigger", ev.TriggerType,
		}
		if ev.Severity.Rank() >= clinical.SeverityHigh.Rank() {
			log.Warn("Clinical note needs review", kv...)
			return
		}
		log.Info("Clinical note created", kv...)
	}
}
