package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtaxdash/pkg/contracts/domain"
)

var sampleLabels = []string{"2018년_금액", "2018년_비중", "2019년_금액", "2019년_비중"}

func sampleRaw() domain.RawTable {
	return rawTable(sampleLabels, map[string]map[string]string{
		"합계": {"2018년_금액": "3,000", "2018년_비중": "100", "2019년_금액": "3,700", "2019년_비중": "100"},
		"서울": {"2018년_금액": "1,000", "2018년_비중": "33.3", "2019년_금액": "1,500", "2019년_비중": "40.5"},
		"부산": {"2018년_금액": "2,000", "2018년_비중": "66.7", "2019년_금액": "2,200", "2019년_비중": "59.5"},
	}, "합계", "서울", "부산")
}

func TestReshape(t *testing.T) {
	table, err := Reshape(sampleRaw(), DefaultReshapeOptions())
	require.NoError(t, err)

	// two entities × four labels; the total row is dropped
	assert.Equal(t, 8, table.Len())
	assert.Equal(t, []string{"부산", "서울"}, table.Entities())
	assert.Equal(t, []int{2018, 2019}, table.Years())
	assert.Equal(t, []domain.Category{domain.CategoryAmount, domain.CategoryShare}, table.Categories())

	row, ok := table.Lookup("서울", 2019, domain.CategoryAmount)
	require.True(t, ok)
	assert.Equal(t, 1500.0, row.Value)

	row, ok = table.Lookup("부산", 2018, domain.CategoryShare)
	require.True(t, ok)
	assert.Equal(t, 66.7, row.Value)

	_, ok = table.Lookup(DefaultTotalEntity, 2018, domain.CategoryAmount)
	assert.False(t, ok, "total entity must never reappear")
}

func TestReshape_RowCountIsEntitiesTimesLabels(t *testing.T) {
	labels := []string{"2017년_금액", "2018년_금액", "2019년_금액"}
	cells := map[string]map[string]string{}
	entities := []string{"서울", "부산", "대구", "인천", "광주"}
	for _, e := range entities {
		cells[e] = map[string]string{"2017년_금액": "1", "2018년_금액": "2", "2019년_금액": "3"}
	}

	table, err := Reshape(rawTable(labels, cells, entities...), ReshapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, len(entities)*len(labels), table.Len())
}

func TestReshape_CustomExclusion(t *testing.T) {
	table, err := Reshape(sampleRaw(), ReshapeOptions{ExcludeEntities: []string{"합계", "부산"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"서울"}, table.Entities())
	assert.Equal(t, 4, table.Len())
}

func TestReshape_MalformedCell(t *testing.T) {
	raw := sampleRaw()
	raw.Rows[1].Cells["2019년_금액"] = "n/a"

	_, err := Reshape(raw, DefaultReshapeOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "서울/2019년_금액", pe.Field)
}

func TestReshape_MissingCell(t *testing.T) {
	raw := sampleRaw()
	delete(raw.Rows[2].Cells, "2018년_비중")

	_, err := Reshape(raw, DefaultReshapeOptions())
	assert.True(t, errors.Is(err, ErrParse))
}

func TestReshape_MalformedLabel(t *testing.T) {
	raw := sampleRaw()
	raw.Labels = append(raw.Labels, "2019년_인구")

	_, err := Reshape(raw, DefaultReshapeOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestReshape_DuplicateEntity(t *testing.T) {
	raw := sampleRaw()
	raw.Rows = append(raw.Rows, raw.Rows[1])

	_, err := Reshape(raw, DefaultReshapeOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReshape))

	var re *ReshapeError
	assert.True(t, errors.As(err, &re))
}

func TestReshape_DuplicateLabel(t *testing.T) {
	raw := sampleRaw()
	raw.Labels = append(raw.Labels, " 2019년_금액 ")

	_, err := Reshape(raw, DefaultReshapeOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReshape))
}

func TestReshape_ApiTokenInHeader(t *testing.T) {
	raw := sampleRaw()
	raw.Labels = append(raw.Labels, "2019년_amount")

	_, err := Reshape(raw, DefaultReshapeOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestReshape_EmptyEntity(t *testing.T) {
	raw := sampleRaw()
	raw.Rows[2].Entity = "  "

	_, err := Reshape(raw, DefaultReshapeOptions())
	assert.True(t, errors.Is(err, ErrReshape))
}
