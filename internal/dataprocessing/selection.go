package dataprocessing

import (
	"math"
	"sort"

	"localtaxdash/pkg/contracts/domain"
)

// Filter narrows the long table to one year and, optionally, one category.
type Filter struct {
	Year     int
	Category *domain.Category
}

// Matches reports whether row passes the filter.
func (f Filter) Matches(row domain.LongRow) bool {
	if row.Year != f.Year {
		return false
	}
	return f.Category == nil || row.Category == *f.Category
}

// Select returns the rows matching f. The order of the result is not
// guaranteed; use SortByValue or SortByEntity when order matters. An empty
// match is reported through NoData, not an error.
func Select(t *domain.Table, f Filter) domain.Selection {
	sel := domain.Selection{
		Year:     f.Year,
		Category: f.Category,
		Rows:     []domain.LongRow{},
	}
	for _, row := range t.Rows() {
		if f.Matches(row) {
			sel.Rows = append(sel.Rows, row)
		}
	}
	sel.NoData = len(sel.Rows) == 0
	return sel
}

// SortByValue returns a copy of rows ordered by value. Ties fall back to
// entity name so the output is deterministic.
func SortByValue(rows []domain.LongRow, descending bool) []domain.LongRow {
	out := make([]domain.LongRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Value != b.Value {
			if descending {
				return a.Value > b.Value
			}
			return a.Value < b.Value
		}
		return a.Entity < b.Entity
	})
	return out
}

// SortByEntity returns a copy of rows ordered by entity, then year, then
// category.
func SortByEntity(rows []domain.LongRow) []domain.LongRow {
	out := make([]domain.LongRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return categoryOrder(a.Category) < categoryOrder(b.Category)
	})
	return out
}

func categoryOrder(c domain.Category) int {
	switch c {
	case domain.CategoryAmount:
		return 0
	case domain.CategoryShare:
		return 1
	default:
		return 2
	}
}

// PartitionMigration splits set into entities whose difference exceeds
// threshold upward or downward. Percentages are the share of the set's
// entities in each group, rounded to the nearest integer. A degenerate or
// empty set yields empty groups and zero percentages.
func PartitionMigration(set domain.DeltaSet, threshold float64) domain.Migration {
	m := domain.Migration{
		Year:       set.Year,
		Category:   set.Category,
		Threshold:  threshold,
		Increased:  []domain.DeltaRow{},
		Decreased:  []domain.DeltaRow{},
		Degenerate: set.Degenerate,
		NoData:     set.NoData || len(set.Rows) == 0,
	}
	if m.NoData || m.Degenerate {
		return m
	}

	entities := make(map[string]struct{}, len(set.Rows))
	for _, row := range set.Rows {
		entities[row.Entity] = struct{}{}
		switch {
		case row.Difference > threshold:
			m.Increased = append(m.Increased, row)
		case row.Difference < -threshold:
			m.Decreased = append(m.Decreased, row)
		}
	}

	total := float64(len(entities))
	m.IncreasedPercent = int(math.Round(float64(len(m.Increased)) / total * 100))
	m.DecreasedPercent = int(math.Round(float64(len(m.Decreased)) / total * 100))
	return m
}
