package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"localtaxdash/pkg/contracts/domain"
)

// rawTable builds a wide table from entity → label → cell.
func rawTable(labels []string, cells map[string]map[string]string, order ...string) domain.RawTable {
	raw := domain.RawTable{Source: "test.csv", EntityColumn: "시도별", Labels: labels}
	for i, entity := range order {
		raw.Rows = append(raw.Rows, domain.RawRow{Entity: entity, Cells: cells[entity], Line: i + 2})
	}
	return raw
}

func longTable(t *testing.T, rows ...domain.LongRow) *domain.Table {
	t.Helper()
	table, err := domain.NewTable(rows)
	require.NoError(t, err)
	return table
}

func amount(entity string, year int, value float64) domain.LongRow {
	return domain.LongRow{Entity: entity, Year: year, Category: domain.CategoryAmount, Value: value}
}

func share(entity string, year int, value float64) domain.LongRow {
	return domain.LongRow{Entity: entity, Year: year, Category: domain.CategoryShare, Value: value}
}

func categoryPtr(c domain.Category) *domain.Category {
	return &c
}
