package health

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	"github.com/yungbote/mindbridge-backend/internal/observability"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	HealthDays repos.HealthDayRepo

	// Now is the clock for the import window and summary window. Defaults to time.Now.
	Now func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("module", "health")
	return Usecases{deps: deps}
}

// ImportHealthExport runs the whole import pipeline for one uploaded archive. Any failure
// before the write leaves storage untouched.
func (u Usecases) ImportHealthExport(ctx context.Context, userID uuid.UUID, archive io.ReaderAt, size int64) (res ImportResult, err error) {
	if userID == uuid.Nil {
		return ImportResult{}, fmt.Errorf("import health export: %w", apperrors.ErrInvalidArgument)
	}
	ctx, span := observability.StartSpan(ctx, "health.import",
		attribute.Int64("archive.bytes", size),
	)
	started := u.deps.Now()
	var stats ParseStats
	defer func() {
		observability.EndSpan(span, err)
		observability.Current().ObserveHealthImport(importOutcome(err), res.RecordsSaved, stats.Processed, u.deps.Now().Sub(started))
	}()

	doc, err := OpenExport(archive, size)
	if err != nil {
		return ImportResult{}, err
	}
	defer doc.Close()

	_, parseSpan := observability.StartSpan(ctx, "health.parse")
	days, stats, err := Parser{Now: u.deps.Now}.Parse(ctx, doc)
	observability.EndSpan(parseSpan, err)
	if err != nil {
		u.deps.Log.Warn("health export parse failed", "user_id", userID, "scanned", stats.Scanned, "error", err)
		return ImportResult{}, err
	}

	rows := BuildDays(userID, days)
	res, err = Writer{Days: u.deps.HealthDays}.Write(dbctx.Context{Ctx: ctx}, rows)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import health export: %w", err)
	}
	span.SetAttributes(
		attribute.Int("records.scanned", stats.Scanned),
		attribute.Int("records.processed", stats.Processed),
		attribute.Int("days.saved", res.RecordsSaved),
	)
	u.deps.Log.Info("health export imported",
		"user_id", userID,
		"scanned", stats.Scanned,
		"processed", stats.Processed,
		"records_saved", res.RecordsSaved,
		"duration_ms", u.deps.Now().Sub(started).Milliseconds(),
	)
	return res, nil
}

// ImportHealthExportFile imports an archive from disk.
func (u Usecases) ImportHealthExportFile(ctx context.Context, userID uuid.UUID, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return ImportResult{}, err
	}
	return u.ImportHealthExport(ctx, userID, f, info.Size())
}

// GetHealthSummary returns nil, nil when the user has no HealthDay rows in the window.
func (u Usecases) GetHealthSummary(ctx context.Context, userID uuid.UUID, days int) (*Summary, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}
	now := u.deps.Now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	rows, err := u.deps.HealthDays.ListSince(dbctx.Context{Ctx: ctx}, userID, since)
	if err != nil {
		return nil, fmt.Errorf("health summary: %w", err)
	}
	return Summarize(rows, days), nil
}

func importOutcome(err error) string {
	var (
		invalid *apperrors.InvalidArchiveError
		missing *apperrors.MissingExportError
		parse   *apperrors.ParseError
	)
	switch {
	case err == nil:
		return "ok"
	case apperrors.As(err, &invalid):
		return "invalid_archive"
	case apperrors.As(err, &missing):
		return "missing_export"
	case apperrors.As(err, &parse):
		return "parse_error"
	default:
		return "storage_error"
	}
}
