package exporter

import (
	"strconv"

	"localtaxdash/pkg/contracts/domain"
)

// formatFloat writes the shortest decimal that round-trips, without an
// exponent, so amounts stay readable in spreadsheets.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

var (
	longHeaders  = []string{"entity", "year", "category", "value"}
	deltaHeaders = []string{"entity", "year", "category", "value", "difference", "absolute_difference", "degenerate"}
)

func longRecord(r domain.LongRow) []string {
	return []string{r.Entity, formatInt(int64(r.Year)), r.Category.String(), formatFloat(r.Value)}
}

func deltaRecord(set domain.DeltaSet, r domain.DeltaRow) []string {
	return []string{
		r.Entity,
		formatInt(int64(set.Year)),
		set.Category.String(),
		formatFloat(r.Value),
		formatFloat(r.Difference),
		formatFloat(r.AbsoluteDifference),
		formatBool(set.Degenerate),
	}
}
