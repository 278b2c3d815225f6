package health

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
)

func TestHealthDayRepoUpsertOverwrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewHealthDayRepo(db, testutil.Logger(t))

	userID := uuid.New()
	day := testutil.Day(time.Now().Add(-48 * time.Hour))

	first := []*types.HealthDay{{
		UserID:     userID,
		Date:       day,
		SleepHours: testutil.Ptr(7.5),
		Steps:      testutil.Ptr(1000.0),
	}}
	if n, err := repo.UpsertDays(dbc, first); err != nil || n != 1 {
		t.Fatalf("UpsertDays first: n=%d err=%v", n, err)
	}

	// A later import without sleep data must clear it rather than merge.
	second := []*types.HealthDay{{
		UserID: userID,
		Date:   day,
		Steps:  testutil.Ptr(2500.0),
	}}
	if n, err := repo.UpsertDays(dbc, second); err != nil || n != 1 {
		t.Fatalf("UpsertDays second: n=%d err=%v", n, err)
	}

	rows, err := repo.ListSince(dbc, userID, day.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row per (user, date), got %d", len(rows))
	}
	if rows[0].SleepHours != nil {
		t.Fatalf("sleep should be overwritten with null, got %v", *rows[0].SleepHours)
	}
	if rows[0].Steps == nil || *rows[0].Steps != 2500 {
		t.Fatalf("steps should be last-write-wins, got %v", rows[0].Steps)
	}
}

func TestHealthDayRepoEmptyAndWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewHealthDayRepo(db, testutil.Logger(t))

	if n, err := repo.UpsertDays(dbc, nil); err != nil || n != 0 {
		t.Fatalf("empty UpsertDays: n=%d err=%v", n, err)
	}

	userID := uuid.New()
	today := testutil.Day(time.Now())
	rows := []*types.HealthDay{
		{UserID: userID, Date: today.AddDate(0, 0, -40), Steps: testutil.Ptr(1.0)},
		{UserID: userID, Date: today.AddDate(0, 0, -2), Steps: testutil.Ptr(2.0)},
		{UserID: userID, Date: today.AddDate(0, 0, -1), Steps: testutil.Ptr(3.0)},
		{UserID: uuid.New(), Date: today.AddDate(0, 0, -1), Steps: testutil.Ptr(4.0)},
	}
	if _, err := repo.UpsertDays(dbc, rows); err != nil {
		t.Fatalf("UpsertDays: %v", err)
	}
	got, err := repo.ListSince(dbc, userID, today.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows in window, got %d", len(got))
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Fatalf("rows should be ascending by date")
	}
}
