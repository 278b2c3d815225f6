package health

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	repohealth "github.com/yungbote/mindbridge-backend/internal/data/repos/health"
	"github.com/yungbote/mindbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
)

func newUsecases(t *testing.T, days repos.HealthDayRepo) Usecases {
	t.Helper()
	return New(UsecasesDeps{Log: testutil.Logger(t), HealthDays: days, Now: clock})
}

func TestImportHealthExportIdempotent(t *testing.T) {
	db := testutil.DB(t)
	repo := repohealth.NewHealthDayRepo(db, testutil.Logger(t))
	uc := newUsecases(t, repo)
	userID := uuid.New()
	raw := zipBytes(t, map[string]string{ExportPath: sampleExport()})

	first, err := uc.ImportHealthExport(context.Background(), userID, bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first.RecordsSaved != 2 || first.DateRange == nil || first.DateRange.From != "2024-05-10" || first.DateRange.To != "2024-05-11" {
		t.Fatalf("first import result=%+v", first)
	}
	before, err := repo.ListSince(dbctx.Context{Ctx: context.Background()}, userID, time.Time{})
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}

	second, err := uc.ImportHealthExport(context.Background(), userID, bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.RecordsSaved != first.RecordsSaved {
		t.Fatalf("recordsSaved changed: %d vs %d", second.RecordsSaved, first.RecordsSaved)
	}
	after, err := repo.ListSince(dbctx.Context{Ctx: context.Background()}, userID, time.Time{})
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(after) != len(before) || len(after) != 2 {
		t.Fatalf("re-import duplicated rows: before=%d after=%d", len(before), len(after))
	}
	for i := range after {
		if !samePtr(after[i].Steps, before[i].Steps) || !samePtr(after[i].SleepHours, before[i].SleepHours) {
			t.Fatalf("values changed on re-import for %s", after[i].Date)
		}
	}
	if after[0].TotalCalories == nil || *after[0].TotalCalories != 1800 {
		t.Fatalf("total calories=%v", after[0].TotalCalories)
	}
	if after[0].StressLevel == nil || *after[0].StressLevel != 3 {
		t.Fatalf("stress from mean HRV 50 should be 3, got %v", after[0].StressLevel)
	}
}

func TestImportHealthExportOnlyOldRecords(t *testing.T) {
	fake := &fakeDays{}
	uc := newUsecases(t, fake)
	doc := exportXML(recordXML("HKQuantityTypeIdentifierStepCount", "2023-01-01 08:00:00 +0000", "2023-01-01 08:10:00 +0000", "100"))
	raw := zipBytes(t, map[string]string{ExportPath: doc})

	res, err := uc.ImportHealthExport(context.Background(), uuid.New(), bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.RecordsSaved != 0 || res.DateRange != nil {
		t.Fatalf("expected zero result, got %+v", res)
	}
	if fake.calls != 0 {
		t.Fatalf("storage must not be touched for empty input")
	}
}

func TestImportHealthExportFailuresWriteNothing(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		check func(error) bool
	}{
		{"missing_export", map[string]string{"readme.txt": "hi"}, func(err error) bool {
			var e *apperrors.MissingExportError
			return errors.As(err, &e)
		}},
		{"malformed", map[string]string{ExportPath: "<HealthData><Record></HealthData>"}, func(err error) bool {
			var e *apperrors.ParseError
			return errors.As(err, &e)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeDays{}
			uc := newUsecases(t, fake)
			raw := zipBytes(t, tc.files)
			_, err := uc.ImportHealthExport(context.Background(), uuid.New(), bytes.NewReader(raw), int64(len(raw)))
			if !tc.check(err) {
				t.Fatalf("unexpected error %T %v", err, err)
			}
			if fake.calls != 0 {
				t.Fatalf("nothing should be written on %s", tc.name)
			}
		})
	}
}

func TestImportHealthExportPersistenceError(t *testing.T) {
	fake := &fakeDays{err: &apperrors.PersistenceError{Op: "upsert health days", Code: "08006", Transient: true, Err: errors.New("connection lost")}}
	uc := newUsecases(t, fake)
	raw := zipBytes(t, map[string]string{ExportPath: sampleExport()})

	_, err := uc.ImportHealthExport(context.Background(), uuid.New(), bytes.NewReader(raw), int64(len(raw)))
	var pe *apperrors.PersistenceError
	if !errors.As(err, &pe) || !pe.Transient {
		t.Fatalf("expected transient PersistenceError, got %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("write must be attempted once without retry, got %d", fake.calls)
	}
}

func TestGetHealthSummary(t *testing.T) {
	db := testutil.DB(t)
	repo := repohealth.NewHealthDayRepo(db, testutil.Logger(t))
	uc := newUsecases(t, repo)
	userID := uuid.New()
	ctx := context.Background()

	got, err := uc.GetHealthSummary(ctx, userID, 30)
	if err != nil || got != nil {
		t.Fatalf("no data: summary=%v err=%v", got, err)
	}

	base := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	rows := []*types.HealthDay{
		{UserID: userID, Date: base, SleepHours: testutil.Ptr(7.5)},
		{UserID: userID, Date: base.AddDate(0, 0, 1), Steps: testutil.Ptr(10.0)},
		{UserID: userID, Date: base.AddDate(0, 0, 2), Steps: testutil.Ptr(20.0)},
		{UserID: userID, Date: base.AddDate(0, 0, 3), Steps: testutil.Ptr(30.0)},
		{UserID: userID, Date: base.AddDate(0, 0, -60), SleepHours: testutil.Ptr(2.0)},
	}
	if _, err := repo.UpsertDays(dbctx.Context{Ctx: ctx}, rows); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err = uc.GetHealthSummary(ctx, userID, 0)
	if err != nil || got == nil {
		t.Fatalf("summary=%v err=%v", got, err)
	}
	if got.DataPointCount != 4 {
		t.Fatalf("dataPointCount=%d want 4 (old row outside window)", got.DataPointCount)
	}
	if s := got.Metrics["sleep"]; s.Average != 7.5 || s.Days != 1 {
		t.Fatalf("sleep=%+v want average 7.5 over 1 day", s)
	}
}

func samePtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeDays struct {
	calls int
	err   error
}

func (f *fakeDays) UpsertDays(dbc dbctx.Context, rows []*types.HealthDay) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return len(rows), nil
}

func (f *fakeDays) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.HealthDay, error) {
	return nil, nil
}
