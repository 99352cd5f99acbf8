package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"localtaxdash/pkg/contracts/domain"
)

// Sheet names used by the workbook exports.
const (
	LongSheet   = "long"
	DeltasSheet = "deltas"
)

// WriteLongXLSX writes long rows as a single-sheet workbook. Values are stored
// as numbers so spreadsheet formulas work on them.
func WriteLongXLSX(w io.Writer, rows []domain.LongRow) (int, error) {
	return writeWorkbook(w, LongSheet, longHeaders, len(rows), func(i int) []any {
		r := rows[i]
		return []any{r.Entity, r.Year, r.Category.String(), r.Value}
	})
}

// WriteDeltasXLSX writes a delta set as a single-sheet workbook.
func WriteDeltasXLSX(w io.Writer, set domain.DeltaSet) (int, error) {
	return writeWorkbook(w, DeltasSheet, deltaHeaders, len(set.Rows), func(i int) []any {
		r := set.Rows[i]
		return []any{r.Entity, set.Year, set.Category.String(), r.Value, r.Difference, r.AbsoluteDifference, set.Degenerate}
	})
}

func writeWorkbook(w io.Writer, sheet string, headers []string, n int, row func(int) []any) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: bold}); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < n; i++ {
		if err := sw.SetRow("A"+strconv.Itoa(i+2), row(i)); err != nil {
			return i, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return n, nil
}
