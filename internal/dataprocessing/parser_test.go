package dataprocessing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtaxdash/pkg/contracts/domain"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"thousands separators", "1,234,567", 1234567},
		{"plain integer", "500", 500},
		{"surrounding whitespace", "  1,000 ", 1000},
		{"decimal share", "23.45", 23.45},
		{"negative", "-1,200", -1200},
		{"zero", "0", 0},
		{"explicit plus sign", "+1,500", 1500},
		{"separators with fraction", "1,234.5", 1234.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber("서울/2019년_금액", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumber_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"only whitespace", "   "},
		{"only separators", ",,"},
		{"text", "n/a"},
		{"dash placeholder", "-"},
		{"trailing garbage", "12a"},
		{"nan spelling", "NaN"},
		{"inf spelling", "Inf"},
		{"exponent", "1e3"},
		{"hex float", "0x1p4"},
		{"underscore grouping", "1_000"},
		{"leading decimal point", ".5"},
		{"trailing decimal point", "5."},
		{"inner space", "1 000"},
		{"overflow", "1" + strings.Repeat("0", 400)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNumber("부산/2019년_금액", tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "부산/2019년_금액", pe.Field)
			assert.Equal(t, tt.raw, pe.Raw)
		})
	}
}

func TestSplitLabel(t *testing.T) {
	year, category, err := SplitLabel("2019년_금액")
	require.NoError(t, err)
	assert.Equal(t, 2019, year)
	assert.Equal(t, domain.CategoryAmount, category)

	year, category, err = SplitLabel("2018년_비중")
	require.NoError(t, err)
	assert.Equal(t, 2018, year)
	assert.Equal(t, domain.CategoryShare, category)
}

func TestSplitLabel_Errors(t *testing.T) {
	tests := []struct {
		name  string
		label string
	}{
		{"missing separator", "2019년금액"},
		{"missing year marker", "2019_금액"},
		{"short year", "19년_금액"},
		{"unknown category", "2019년_인구"},
		{"api amount token", "2019년_amount"},
		{"api share token", "2019년_share"},
		{"year too early", "1800년_금액"},
		{"year too late", "2200년_금액"},
		{"entity column", "시도별"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := SplitLabel(tt.label)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.label, fe.Label)
		})
	}
}

func TestJoinLabel_RoundTrip(t *testing.T) {
	for year := MinYear; year <= MaxYear; year++ {
		for _, category := range domain.Categories() {
			label := JoinLabel(year, category)
			gotYear, gotCategory, err := SplitLabel(label)
			require.NoError(t, err, label)
			assert.Equal(t, year, gotYear)
			assert.Equal(t, category, gotCategory)
		}
	}
}

func TestSplitLabel_RebuildsHeader(t *testing.T) {
	for _, label := range []string{"2018년_금액", "2018년_비중", "2023년_금액"} {
		year, category, err := SplitLabel(label)
		require.NoError(t, err, label)
		assert.Equal(t, label, JoinLabel(year, category))
	}
}
