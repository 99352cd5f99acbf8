package domain

import (
	"fmt"
	"strings"
)

// Category tells whether a value is an absolute tax amount or a percentage
// composition share.
type Category string

const (
	CategoryAmount Category = "amount"
	CategoryShare  Category = "share"
)

// Header tokens used by the source workbook for each category.
const (
	amountToken = "금액"
	shareToken  = "비중"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryAmount, CategoryShare}
}

// ParseCategory maps a header token ("금액", "비중") or an API token
// ("amount", "share") onto the closed category set.
func ParseCategory(token string) (Category, error) {
	switch strings.TrimSpace(token) {
	case amountToken, string(CategoryAmount):
		return CategoryAmount, nil
	case shareToken, string(CategoryShare):
		return CategoryShare, nil
	default:
		return "", fmt.Errorf("unknown category %q", token)
	}
}

// ParseHeaderCategory accepts only the header tokens "금액" and "비중", so
// every label it admits rebuilds exactly from Label.
func ParseHeaderCategory(token string) (Category, error) {
	switch token {
	case amountToken:
		return CategoryAmount, nil
	case shareToken:
		return CategoryShare, nil
	default:
		return "", fmt.Errorf("unknown header category %q", token)
	}
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryAmount, CategoryShare:
		return true
	default:
		return false
	}
}

// Label returns the token the source header uses for c.
func (c Category) Label() string {
	switch c {
	case CategoryAmount:
		return amountToken
	case CategoryShare:
		return shareToken
	default:
		return string(c)
	}
}

// Unit returns the display unit for values of c.
func (c Category) Unit() string {
	switch c {
	case CategoryShare:
		return "%"
	default:
		return "KRW"
	}
}

func (c Category) String() string {
	return string(c)
}

// RawRow is one entity's record exactly as read from the wide source file.
type RawRow struct {
	Entity string            `json:"entity"`
	Cells  map[string]string `json:"cells"`
	Line   int               `json:"line"`
}

// RawTable is the wide source table: one row per entity, one column per
// year×category label.
type RawTable struct {
	Source       string   `json:"source"`
	EntityColumn string   `json:"entity_column"`
	Labels       []string `json:"labels"`
	Rows         []RawRow `json:"rows"`
}

// LongRow is a single (entity, year, category, value) observation.
type LongRow struct {
	Entity   string   `json:"entity"`
	Year     int      `json:"year"`
	Category Category `json:"category"`
	Value    float64  `json:"value"`
}

// DeltaRow is an entity's value for a selected year together with its change
// against the previous year.
type DeltaRow struct {
	Entity             string  `json:"entity"`
	Value              float64 `json:"value"`
	Difference         float64 `json:"difference"`
	AbsoluteDifference float64 `json:"absolute_difference"`
}
