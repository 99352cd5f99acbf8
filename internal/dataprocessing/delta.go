package dataprocessing

import (
	"math"
	"sort"

	"localtaxdash/pkg/contracts/domain"
)

// CalculateDeltas computes, for every entity present in (year, category), its
// value and the signed and absolute change against year-1.
//
// The prior value is looked up by entity name; an entity missing from the
// prior year counts as 0, and entities present only in the prior year are
// left out. When year is the earliest year in the table the set is marked
// Degenerate and every difference equals the value.
func CalculateDeltas(t *domain.Table, year int, category domain.Category) domain.DeltaSet {
	set := domain.DeltaSet{
		Year:     year,
		Category: category,
		Rows:     []domain.DeltaRow{},
	}
	if earliest, ok := t.EarliestYear(); ok && earliest == year {
		set.Degenerate = true
	}

	for _, entity := range t.Entities() {
		current, ok := t.Lookup(entity, year, category)
		if !ok {
			continue
		}
		prior := 0.0
		if prev, ok := t.Lookup(entity, year-1, category); ok {
			prior = prev.Value
		}
		diff := current.Value - prior
		set.Rows = append(set.Rows, domain.DeltaRow{
			Entity:             entity,
			Value:              current.Value,
			Difference:         diff,
			AbsoluteDifference: math.Abs(diff),
		})
	}

	sort.SliceStable(set.Rows, func(i, j int) bool {
		a, b := set.Rows[i], set.Rows[j]
		if a.Difference != b.Difference {
			return a.Difference > b.Difference
		}
		return a.Entity < b.Entity
	})

	set.NoData = len(set.Rows) == 0
	return set
}
