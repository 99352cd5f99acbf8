package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"localtaxdash/pkg/contracts/domain"
)

// DefaultTotalEntity is the synthetic sum row shipped in the source file.
const DefaultTotalEntity = "합계"

// ReshapeOptions controls which raw rows take part in the reshape.
type ReshapeOptions struct {
	// ExcludeEntities are dropped before reshaping and never reappear.
	ExcludeEntities []string
	Logger          *slog.Logger
}

// DefaultReshapeOptions drops the "합계" total row.
func DefaultReshapeOptions() ReshapeOptions {
	return ReshapeOptions{
		ExcludeEntities: []string{DefaultTotalEntity},
		Logger:          slog.Default(),
	}
}

// Reshaper melts a wide raw table into the long table.
type Reshaper struct {
	exclude map[string]struct{}
	logger  *slog.Logger
}

// NewReshaper creates a reshaper for the given options.
func NewReshaper(opts ReshapeOptions) *Reshaper {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exclude := make(map[string]struct{}, len(opts.ExcludeEntities))
	for _, e := range opts.ExcludeEntities {
		exclude[strings.TrimSpace(e)] = struct{}{}
	}
	return &Reshaper{
		exclude: exclude,
		logger:  logger.With(slog.String("component", "reshaper")),
	}
}

// Reshape is a convenience wrapper around NewReshaper(opts).Reshape(raw).
func Reshape(raw domain.RawTable, opts ReshapeOptions) (*domain.Table, error) {
	return NewReshaper(opts).Reshape(raw)
}

type parsedLabel struct {
	label    string
	year     int
	category domain.Category
}

// Reshape emits one LongRow per (entity, label). Any malformed label or cell
// aborts with the corresponding typed error; the result is checked to hold
// exactly entities × labels rows.
func (r *Reshaper) Reshape(raw domain.RawTable) (*domain.Table, error) {
	labels, err := r.parseLabels(raw.Labels)
	if err != nil {
		return nil, err
	}

	entities := 0
	rows := make([]domain.LongRow, 0, len(raw.Rows)*len(labels))
	for _, rr := range raw.Rows {
		entity := strings.TrimSpace(rr.Entity)
		if _, skip := r.exclude[entity]; skip {
			r.logger.Debug("excluding entity", slog.String("entity", entity), slog.Int("line", rr.Line))
			continue
		}
		if entity == "" {
			return nil, &ReshapeError{Reason: fmt.Sprintf("line %d: empty entity name", rr.Line)}
		}
		entities++

		for _, pl := range labels {
			value, err := ParseNumber(fieldName(entity, pl.label), rr.Cells[pl.label])
			if err != nil {
				return nil, err
			}
			rows = append(rows, domain.LongRow{
				Entity:   entity,
				Year:     pl.year,
				Category: pl.category,
				Value:    value,
			})
		}
	}

	expected := entities * len(labels)
	if len(rows) != expected {
		return nil, &ReshapeError{Expected: expected, Actual: len(rows)}
	}

	table, err := domain.NewTable(rows)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRow) {
			return nil, &ReshapeError{Expected: expected, Actual: len(rows), Reason: err.Error()}
		}
		return nil, err
	}

	r.logger.Info("reshape complete",
		slog.String("source", raw.Source),
		slog.Int("entities", entities),
		slog.Int("labels", len(labels)),
		slog.Int("rows", table.Len()))

	return table, nil
}

// parseLabels splits every header label and rejects repeated
// (year, category) pairs, which would break row uniqueness.
func (r *Reshaper) parseLabels(raw []string) ([]parsedLabel, error) {
	seen := make(map[string]string, len(raw))
	labels := make([]parsedLabel, 0, len(raw))
	for _, label := range raw {
		year, category, err := SplitLabel(label)
		if err != nil {
			return nil, err
		}
		key := JoinLabel(year, category)
		if prev, dup := seen[key]; dup {
			return nil, &ReshapeError{Reason: fmt.Sprintf("labels %q and %q both map to %s", prev, label, key)}
		}
		seen[key] = label
		labels = append(labels, parsedLabel{label: label, year: year, category: category})
	}
	return labels, nil
}

func fieldName(entity, label string) string {
	return entity + "/" + label
}
