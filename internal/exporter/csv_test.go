package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtaxdash/pkg/contracts/domain"
)

func sampleLongRows() []domain.LongRow {
	return []domain.LongRow{
		{Entity: "부산", Year: 2019, Category: domain.CategoryAmount, Value: 2200},
		{Entity: "서울", Year: 2019, Category: domain.CategoryShare, Value: 20.3},
	}
}

func sampleDeltaSet() domain.DeltaSet {
	return domain.DeltaSet{
		Year:     2019,
		Category: domain.CategoryAmount,
		Rows: []domain.DeltaRow{
			{Entity: "대구", Value: 3700, Difference: 700, AbsoluteDifference: 700},
			{Entity: "서울", Value: 1500, Difference: 500, AbsoluteDifference: 500},
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")
	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteLongCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteLongCSV(&buf, sampleLongRows())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, [][]string{
		{"entity", "year", "category", "value"},
		{"부산", "2019", "amount", "2200"},
		{"서울", "2019", "share", "20.3"},
	}, readCSV(t, buf.Bytes()))
}

func TestWriteDeltasCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteDeltasCSV(&buf, sampleDeltaSet())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, deltaHeaders, records[0])
	assert.Equal(t, []string{"대구", "2019", "amount", "3700", "700", "700", "false"}, records[1])
}

func TestWriteDeltasCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteDeltasCSV(&buf, domain.DeltaSet{Year: 1990, Category: domain.CategoryShare, NoData: true})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, readCSV(t, buf.Bytes()), 1)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamWriter_Errors(t *testing.T) {
	_, err := NewStreamWriter(failingWriter{}, WriteOptions{BOMPrefix: true})
	assert.ErrorContains(t, err, "failed to write BOM")

	// csv.Writer buffers; the failure surfaces on Close.
	sw, err := NewStreamWriter(failingWriter{}, WriteOptions{Headers: longHeaders})
	require.NoError(t, err)
	require.NoError(t, sw.WriteRecord([]string{"a"}))
	assert.Equal(t, 1, sw.Count())
	assert.Error(t, sw.Close())
}
