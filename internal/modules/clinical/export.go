package clinical

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
)

const exportSheet = "Clinical Notes"

var exportHeaders = []string{
	"Note ID",
	"User ID",
	"Created At",
	"Severity",
	"Trigger",
	"Flagged Keywords",
	"Concerning Patterns",
	"Recommendations",
	"Reviewed",
	"Reviewed By",
	"Reviewed At",
	"Summary",
}

var exportWidths = []float64{38, 38, 22, 10, 20, 30, 40, 50, 10, 18, 22, 80}

// ExportNotes renders the filtered notes as an XLSX workbook, newest first.
func (u Usecases) ExportNotes(ctx context.Context, filter clinical.ListFilter) ([]byte, error) {
	notes, err := u.ListNotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("export notes: %w", err)
	}
	return RenderNotesXLSX(notes)
}

func RenderNotesXLSX(notes []*types.ClinicalNote) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, h := range exportHeaders {
		if err := setCell(f, i+1, 1, h); err != nil {
			return nil, err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, col, col, exportWidths[i]); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, n := range notes {
		row := i + 2
		patterns := make([]string, 0)
		for _, p := range n.PatternList() {
			patterns = append(patterns, fmt.Sprintf("%s (%.0f%%)", p.Pattern, p.Confidence*100))
		}
		reviewedAt := ""
		if n.ReviewedAt != nil {
			reviewedAt = n.ReviewedAt.UTC().Format(time.RFC3339)
		}
		values := []any{
			n.ID.String(),
			n.UserID.String(),
			n.CreatedAt.UTC().Format(time.RFC3339),
			string(n.Severity),
			string(n.TriggerType),
			strings.Join(n.FlaggedKeywordList(), ", "),
			strings.Join(patterns, "; "),
			strings.Join(n.RecommendationList(), "; "),
			yesNo(n.Reviewed),
			n.ReviewedBy,
			reviewedAt,
			n.Summary,
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(exportSheet, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
