package files

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/internal/shared/testutil"
)

const entityColumn = "시도별"

func TestLoader_LoadCSVWithBOM(t *testing.T) {
	csvPath, _ := testutil.WriteDataset(t, t.TempDir())
	logger, logs := testutil.NewTestLogger(t)

	raw, err := NewLoader(entityColumn, WithLogger(logger)).Load(context.Background(), csvPath)
	require.NoError(t, err)

	assert.Equal(t, csvPath, raw.Source)
	assert.Equal(t, entityColumn, raw.EntityColumn)
	assert.Equal(t, []string{"2018년_금액", "2018년_비중", "2019년_금액", "2019년_비중"}, raw.Labels)
	require.Len(t, raw.Rows, 4)

	assert.Equal(t, "합계", raw.Rows[0].Entity)
	assert.Equal(t, 2, raw.Rows[0].Line)
	assert.Equal(t, "서울", raw.Rows[1].Entity)
	assert.Equal(t, "1,500", raw.Rows[1].Cells["2019년_금액"])
	assert.Equal(t, 5, raw.Rows[3].Line)

	assert.True(t, logs.ContainsMessage("source table loaded"))
	assert.True(t, logs.ContainsAttr("format", FormatCSV))
}

func TestLoader_LoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"2020년_금액", "시도별", "2020년_비중"},
		{"9,000", "합계", "100"},
		{"4,000", "서울", "44.4"},
		{"5,000", "경기"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	raw, err := NewLoader(entityColumn).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"2020년_금액", "2020년_비중"}, raw.Labels)
	require.Len(t, raw.Rows, 3)
	assert.Equal(t, "서울", raw.Rows[1].Entity)
	assert.Equal(t, "4,000", raw.Rows[1].Cells["2020년_금액"])
	assert.Equal(t, 3, raw.Rows[1].Line)
	// Trailing empty cells are padded rather than rejected.
	assert.Equal(t, "", raw.Rows[2].Cells["2020년_비중"])
}

func TestLoader_MissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewLoader(entityColumn, WithSheet("없음")).Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeParsing))
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		errType apierrors.ErrorType
		msg     string
	}{
		{"unsupported extension", "tax.txt", "x", apierrors.ErrTypeParsing, "unsupported source format"},
		{"missing entity column", "a.csv", "지역,2019년_금액\n서울,1\n", apierrors.ErrTypeParsing, `entity column "시도별"`},
		{"ragged row", "b.csv", "시도별,2019년_금액\n서울,1,2\n", apierrors.ErrTypeParsing, "failed to read CSV"},
		{"empty file", "c.csv", "", apierrors.ErrTypeParsing, "source table is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.file, tt.content)
			_, err := NewLoader(entityColumn).Load(context.Background(), path)
			require.Error(t, err)
			assert.True(t, apierrors.IsType(err, tt.errType), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(entityColumn).Load(context.Background(), filepath.Join(dir, "nope.csv"))
		require.Error(t, err)
		assert.True(t, apierrors.IsType(err, apierrors.ErrTypeStorage))
	})
}

func TestLoader_CancelledContext(t *testing.T) {
	csvPath, _ := testutil.WriteDataset(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(entityColumn).Load(ctx, csvPath)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadCSV(t *testing.T) {
	t.Run("skips blank rows and trims entity", func(t *testing.T) {
		input := testutil.UTF8BOM + "시도별,2019년_금액\n 서울 ,\"1,000\"\n,\n부산,2\n"
		raw, err := ReadCSV(strings.NewReader(input), entityColumn)
		require.NoError(t, err)
		require.Len(t, raw.Rows, 2)
		assert.Equal(t, "서울", raw.Rows[0].Entity)
		assert.Equal(t, "1,000", raw.Rows[0].Cells["2019년_금액"])
		assert.Equal(t, 4, raw.Rows[1].Line)
	})

	t.Run("header only", func(t *testing.T) {
		raw, err := ReadCSV(strings.NewReader("시도별,2019년_금액\n"), entityColumn)
		require.NoError(t, err)
		assert.Empty(t, raw.Rows)
		assert.Equal(t, []string{"2019년_금액"}, raw.Labels)
	})
}

func TestDetectFormat(t *testing.T) {
	format, err := DetectFormat("data/TAX.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = DetectFormat("book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	_, err = DetectFormat("book.xls")
	assert.Error(t, err)
}
