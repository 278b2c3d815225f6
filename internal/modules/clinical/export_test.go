package clinical

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
)

func TestRenderNotesXLSX(t *testing.T) {
	reviewedAt := fixedNow.Add(time.Hour)
	notes := []*types.ClinicalNote{
		{
			ID:              uuid.New(),
			UserID:          uuid.New(),
			Severity:        clinical.SeverityUrgent,
			TriggerType:     clinical.TriggerCrisisKeywords,
			Summary:         "urgent summary",
			FlaggedKeywords: clinical.JSON([]string{"suicide", "hopeless"}),
			ConcerningPatterns: clinical.JSON([]clinical.ConcerningPattern{
				{Pattern: "Crisis language detected", Confidence: 0.95, Evidence: `User mentioned: "suicide"`},
			}),
			Recommendations: clinical.JSON(Recommendations(clinical.SeverityUrgent)),
			Reviewed:        true,
			ReviewedBy:      "dr.lee",
			ReviewedAt:      &reviewedAt,
			CreatedAt:       fixedNow,
		},
		{
			ID:          uuid.New(),
			UserID:      uuid.New(),
			Severity:    clinical.SeverityLow,
			TriggerType: clinical.TriggerConversationCount,
			Summary:     "routine",
			CreatedAt:   fixedNow,
		},
	}

	raw, err := RenderNotesXLSX(notes)
	if err != nil {
		t.Fatalf("RenderNotesXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != exportSheet {
		t.Fatalf("sheets=%v", sheets)
	}
	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows=%d", len(rows))
	}
	for i, h := range exportHeaders {
		if rows[0][i] != h {
			t.Fatalf("header %d=%q want %q", i, rows[0][i], h)
		}
	}
	first := rows[1]
	if first[0] != notes[0].ID.String() || first[3] != "urgent" || first[4] != "crisis_keywords" {
		t.Fatalf("row=%v", first)
	}
	if first[5] != "suicide, hopeless" || first[6] != "Crisis language detected (95%)" || first[8] != "Yes" || first[9] != "dr.lee" {
		t.Fatalf("row=%v", first)
	}
	if first[10] != "2024-05-20T13:00:00Z" || first[11] != "urgent summary" {
		t.Fatalf("row=%v", first)
	}
	second := rows[2]
	if second[8] != "No" || second[10] != "" || second[11] != "routine" {
		t.Fatalf("row=%v", second)
	}
}

func TestExportNotesFiltersBySeverity(t *testing.T) {
	uc, _ := newTestUsecases(t, nil)
	ctx := context.Background()
	if _, err := uc.AnalyzeAndMaybeNote(ctx, uuid.New(), userMsgs("I want to die"), ""); err != nil {
		t.Fatalf("urgent note: %v", err)
	}
	if _, err := uc.AnalyzeAndMaybeNote(ctx, uuid.New(), userMsgs("a", "b", "c", "d", "e"), ""); err != nil {
		t.Fatalf("routine note: %v", err)
	}

	urgent := clinical.SeverityUrgent
	raw, err := uc.ExportNotes(ctx, clinical.ListFilter{Severity: &urgent})
	if err != nil {
		t.Fatalf("ExportNotes: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[1][3] != "urgent" {
		t.Fatalf("rows=%v", rows)
	}
}
