package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtaxdash/pkg/contracts/domain"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"exact millions", 3_000_000, "3 M"},
		{"fractional millions", 2_345_678, "2.3 M"},
		{"rounds up", 1_960_000, "2.0 M"},
		{"one million is thousands", 1_000_000, "1000 K"},
		{"thousands floor", 987_654, "987 K"},
		{"below one thousand", 500, "0 K"},
		{"negative floors down", -500, "-1 K"},
		{"negative thousands", -12_345, "-13 K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.value))
		})
	}
}

func TestTopMovers(t *testing.T) {
	table := longTable(t,
		amount("서울", 2018, 1_000_000), amount("서울", 2019, 3_500_000),
		amount("부산", 2018, 2_000_000), amount("부산", 2019, 1_800_000),
		amount("대구", 2018, 500_000), amount("대구", 2019, 600_000),
	)

	movers := TopMovers(CalculateDeltas(table, 2019, domain.CategoryAmount))
	assert.False(t, movers.NoData)

	assert.Equal(t, "서울", movers.Top.Entity)
	assert.Equal(t, "3.5 M", movers.Top.ValueText)
	assert.Equal(t, "2.5 M", movers.Top.DeltaText)

	assert.Equal(t, "부산", movers.Bottom.Entity)
	assert.Equal(t, "1.8 M", movers.Bottom.ValueText)
	assert.Equal(t, "-200 K", movers.Bottom.DeltaText)
}

func TestTopMovers_Placeholders(t *testing.T) {
	table := longTable(t, amount("서울", 2018, 1000), amount("서울", 2019, 1200))

	tests := []struct {
		name string
		set  domain.DeltaSet
	}{
		{"earliest year", CalculateDeltas(table, 2018, domain.CategoryAmount)},
		{"no data", CalculateDeltas(table, 2030, domain.CategoryAmount)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movers := TopMovers(tt.set)
			assert.Equal(t, Placeholder, movers.Top.Entity)
			assert.Equal(t, Placeholder, movers.Top.ValueText)
			assert.Equal(t, Placeholder, movers.Bottom.DeltaText)
		})
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	s := NewSummarizer(logger)

	table := longTable(t,
		amount("서울", 2018, 1000), amount("서울", 2019, 1500),
		amount("부산", 2018, 2000), amount("부산", 2019, 2200),
		share("서울", 2019, 40.5), share("부산", 2019, 59.5),
	)

	summary := s.Summarize(context.Background(), table)
	assert.Equal(t, 6, summary.Rows)
	assert.Equal(t, 2, summary.Entities)
	assert.Equal(t, []int{2018, 2019}, summary.Years)
	assert.Equal(t, 2018, summary.EarliestYear)
	assert.Equal(t, 2019, summary.LatestYear)

	require.Len(t, summary.Totals, 4)
	assert.Equal(t, YearTotal{Year: 2018, Category: domain.CategoryAmount, Total: 3000, Entities: 2}, summary.Totals[0])
	assert.Equal(t, YearTotal{Year: 2018, Category: domain.CategoryShare, Total: 0, Entities: 0}, summary.Totals[1])
	assert.Equal(t, YearTotal{Year: 2019, Category: domain.CategoryAmount, Total: 3700, Entities: 2}, summary.Totals[2])
	assert.Equal(t, 100.0, summary.Totals[3].Total)
}

func TestSummarizer_EmptyTable(t *testing.T) {
	summary := NewSummarizer(nil).Summarize(context.Background(), longTable(t))
	assert.Zero(t, summary.Rows)
	assert.Zero(t, summary.EarliestYear)
	assert.Empty(t, summary.Totals)
}
