package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"localtaxdash/pkg/contracts/domain"
)

// Placeholder is shown instead of a headline metric when no prior year exists.
const Placeholder = "-"

// FormatAmount renders a value for headline display. Values above one million
// become "X M" (one decimal unless the value is a whole number of millions);
// everything else becomes floor(v/1000) followed by " K".
func FormatAmount(v float64) string {
	const million = 1_000_000
	if v > million {
		if math.Mod(v, million) == 0 {
			return fmt.Sprintf("%d M", int64(v/million))
		}
		return fmt.Sprintf("%.1f M", math.Round(v/million*10)/10)
	}
	return fmt.Sprintf("%d K", int64(math.Floor(v/1000)))
}

// TopMovers picks the largest increase and the largest decrease of set. The
// set must already be sorted by difference descending, which CalculateDeltas
// guarantees. Degenerate and empty sets yield placeholder movers.
func TopMovers(set domain.DeltaSet) domain.Movers {
	movers := domain.Movers{
		Year:     set.Year,
		Category: set.Category,
		Top:      placeholderMover(),
		Bottom:   placeholderMover(),
		NoData:   set.NoData || len(set.Rows) == 0,
	}
	if movers.NoData || set.Degenerate {
		return movers
	}
	movers.Top = newMover(set.Rows[0])
	movers.Bottom = newMover(set.Rows[len(set.Rows)-1])
	return movers
}

func newMover(row domain.DeltaRow) domain.Mover {
	return domain.Mover{
		Entity:     row.Entity,
		Value:      row.Value,
		Difference: row.Difference,
		ValueText:  FormatAmount(row.Value),
		DeltaText:  FormatAmount(row.Difference),
	}
}

func placeholderMover() domain.Mover {
	return domain.Mover{Entity: Placeholder, ValueText: Placeholder, DeltaText: Placeholder}
}

// YearTotal is the sum of every entity's value for one (year, category).
type YearTotal struct {
	Year     int             `json:"year"`
	Category domain.Category `json:"category"`
	Total    float64         `json:"total"`
	Entities int             `json:"entities"`
}

// DatasetSummary describes a loaded long table.
type DatasetSummary struct {
	Rows         int               `json:"rows"`
	Entities     int               `json:"entities"`
	Years        []int             `json:"years"`
	Categories   []domain.Category `json:"categories"`
	EarliestYear int               `json:"earliest_year"`
	LatestYear   int               `json:"latest_year"`
	Totals       []YearTotal       `json:"totals"`
}

// Summarizer builds dataset summaries for health reporting and the CLI.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger.With(slog.String("component", "summarizer"))}
}

// Summarize walks t once and reports its shape and per-year totals. Totals
// are ordered by year, then category.
func (s *Summarizer) Summarize(ctx context.Context, t *domain.Table) DatasetSummary {
	summary := DatasetSummary{
		Rows:       t.Len(),
		Entities:   len(t.Entities()),
		Years:      t.Years(),
		Categories: t.Categories(),
		Totals:     []YearTotal{},
	}
	if len(summary.Years) > 0 {
		summary.EarliestYear = summary.Years[0]
		summary.LatestYear = summary.Years[len(summary.Years)-1]
	}

	for _, year := range summary.Years {
		for _, category := range summary.Categories {
			total := YearTotal{Year: year, Category: category}
			for _, entity := range t.Entities() {
				if row, ok := t.Lookup(entity, year, category); ok {
					total.Total += row.Value
					total.Entities++
				}
			}
			summary.Totals = append(summary.Totals, total)
		}
	}

	s.logger.DebugContext(ctx, "dataset summarized",
		slog.Int("rows", summary.Rows),
		slog.Int("entities", summary.Entities),
		slog.Int("years", len(summary.Years)))

	return summary
}
