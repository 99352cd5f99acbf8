package dataprocessing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"localtaxdash/pkg/contracts/domain"
)

// Plausible bounds for a label year.
const (
	MinYear = 1900
	MaxYear = 2100
)

// thousandsSeparator is the only grouping character the source uses.
const thousandsSeparator = ","

// numberPattern is the only shape a cleaned cell may take. ParseFloat alone
// would also take exponents, hex floats, underscores, NaN and Inf.
var numberPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// labelPattern matches "<4-digit year>년_<category token>".
var labelPattern = regexp.MustCompile(`^(\d{4})년_(.+)$`)

// ParseNumber converts a locale-formatted cell such as "1,234,567" to a
// float64. field names the cell in the returned *ParseError. Empty cells and
// any non-numeric residue are errors; nothing is coerced to zero.
func ParseNumber(field, raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), thousandsSeparator, "")
	if !numberPattern.MatchString(cleaned) {
		return 0, &ParseError{Field: field, Raw: raw}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &ParseError{Field: field, Raw: raw, Err: err}
	}
	return value, nil
}

// SplitLabel splits a composite header label such as "2019년_금액" into its
// year and category.
func SplitLabel(label string) (int, domain.Category, error) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, "", &FormatError{Label: label, Reason: "expected <year>년_<category>"}
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", &FormatError{Label: label, Reason: err.Error()}
	}
	if year < MinYear || year > MaxYear {
		return 0, "", &FormatError{
			Label:  label,
			Reason: fmt.Sprintf("year %d outside %d-%d", year, MinYear, MaxYear),
		}
	}

	category, err := domain.ParseHeaderCategory(m[2])
	if err != nil {
		return 0, "", &FormatError{Label: label, Reason: err.Error()}
	}
	return year, category, nil
}

// JoinLabel builds the header label for (year, category); it is the inverse
// of SplitLabel.
func JoinLabel(year int, category domain.Category) string {
	return fmt.Sprintf("%d년_%s", year, category.Label())
}
