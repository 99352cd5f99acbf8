package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteLongXLSX(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteLongXLSX(&buf, sampleLongRows())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f := openWorkbook(t, buf.Bytes())
	assert.Equal(t, []string{LongSheet}, f.GetSheetList())

	rows, err := f.GetRows(LongSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"entity", "year", "category", "value"},
		{"부산", "2019", "amount", "2200"},
		{"서울", "2019", "share", "20.3"},
	}, rows)

	typ, err := f.GetCellType(LongSheet, "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
}

func TestWriteDeltasXLSX(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteDeltasXLSX(&buf, sampleDeltaSet())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f := openWorkbook(t, buf.Bytes())
	rows, err := f.GetRows(DeltasSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, deltaHeaders, rows[0])
	assert.Equal(t, "서울", rows[2][0])
	assert.Equal(t, "500", rows[2][4])
}
