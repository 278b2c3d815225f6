package health

import (
	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/domain/health"
	"github.com/yungbote/mindbridge-backend/internal/platform/dbctx"
)

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ImportResult struct {
	RecordsSaved int        `json:"recordsSaved"`
	DateRange    *DateRange `json:"dateRange,omitempty"`
}

// Writer persists HealthDay candidates as one all-or-nothing upsert.
type Writer struct {
	Days repos.HealthDayRepo
}

func (w Writer) Write(dbc dbctx.Context, rows []*types.HealthDay) (ImportResult, error) {
	if len(rows) == 0 {
		return ImportResult{}, nil
	}
	n, err := w.Days.UpsertDays(dbc, rows)
	if err != nil {
		return ImportResult{}, err
	}
	from, to := rows[0].Date, rows[0].Date
	for _, r := range rows[1:] {
		if r.Date.Before(from) {
			from = r.Date
		}
		if r.Date.After(to) {
			to = r.Date
		}
	}
	return ImportResult{
		RecordsSaved: n,
		DateRange: &DateRange{
			From: from.UTC().Format(health.DayKeyLayout),
			To:   to.UTC().Format(health.DayKeyLayout),
		},
	}, nil
}
