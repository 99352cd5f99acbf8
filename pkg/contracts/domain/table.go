package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateRow is returned when two rows share the same
// (entity, year, category) key.
var ErrDuplicateRow = errors.New("duplicate long row")

type rowKey struct {
	entity   string
	year     int
	category Category
}

// Table is the immutable long-form tax table. It is built once after load and
// shared read-only by every downstream computation; accessors hand out copies.
type Table struct {
	rows       []LongRow
	index      map[rowKey]int
	years      []int
	categories []Category
	entities   []string
}

// NewTable builds a table from long rows, enforcing the uniqueness of
// (entity, year, category).
func NewTable(rows []LongRow) (*Table, error) {
	t := &Table{
		rows:  make([]LongRow, len(rows)),
		index: make(map[rowKey]int, len(rows)),
	}
	copy(t.rows, rows)

	years := make(map[int]struct{})
	categories := make(map[Category]struct{})
	entities := make(map[string]struct{})

	for i, r := range t.rows {
		key := rowKey{entity: r.Entity, year: r.Year, category: r.Category}
		if _, exists := t.index[key]; exists {
			return nil, fmt.Errorf("%w: %s %d %s", ErrDuplicateRow, r.Entity, r.Year, r.Category)
		}
		t.index[key] = i
		years[r.Year] = struct{}{}
		categories[r.Category] = struct{}{}
		entities[r.Entity] = struct{}{}
	}

	for y := range years {
		t.years = append(t.years, y)
	}
	sort.Ints(t.years)

	// Keep the canonical category order rather than map order.
	for _, c := range Categories() {
		if _, ok := categories[c]; ok {
			t.categories = append(t.categories, c)
		}
	}

	for e := range entities {
		t.entities = append(t.entities, e)
	}
	sort.Strings(t.entities)

	return t, nil
}

// Len returns the number of long rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of every row in load order.
func (t *Table) Rows() []LongRow {
	out := make([]LongRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Years returns the distinct years in ascending order.
func (t *Table) Years() []int {
	out := make([]int, len(t.years))
	copy(out, t.years)
	return out
}

// Categories returns the distinct categories present, in canonical order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Entities returns the distinct entity names sorted ascending.
func (t *Table) Entities() []string {
	out := make([]string, len(t.entities))
	copy(out, t.entities)
	return out
}

// EarliestYear returns the first year in the table, or false when empty.
func (t *Table) EarliestYear() (int, bool) {
	if len(t.years) == 0 {
		return 0, false
	}
	return t.years[0], true
}

// HasYear reports whether any row exists for year.
func (t *Table) HasYear(year int) bool {
	i := sort.SearchInts(t.years, year)
	return i < len(t.years) && t.years[i] == year
}

// Lookup returns the row for (entity, year, category).
func (t *Table) Lookup(entity string, year int, category Category) (LongRow, bool) {
	i, ok := t.index[rowKey{entity: entity, year: year, category: category}]
	if !ok {
		return LongRow{}, false
	}
	return t.rows[i], true
}
