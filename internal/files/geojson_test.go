package files

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/internal/shared/testutil"
)

func TestLoadBoundaries(t *testing.T) {
	_, geoPath := testutil.WriteDataset(t, t.TempDir())

	fc, err := LoadBoundaries(geoPath, "NAME")
	require.NoError(t, err)

	require.Len(t, fc.Features, 2)
	assert.Equal(t, "서울", fc.Features[0].Name("NAME"))
	assert.Equal(t, "21", fc.Features[1].Properties["CODE"])
	assert.Contains(t, string(fc.Features[0].Geometry), "Polygon")
}

func TestLoadBoundaries_MissingFile(t *testing.T) {
	_, err := LoadBoundaries(filepath.Join(t.TempDir(), "none.json"), "NAME")
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeStorage))
}

func TestDecodeBoundaries_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"not json", "{", "invalid GeoJSON"},
		{"wrong type", `{"type":"Feature"}`, "expected FeatureCollection"},
		{"missing key", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"CODE":"11"}}]}`, `no "NAME" property`},
		{"duplicate name", `{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"NAME":"서울"}},
			{"type":"Feature","properties":{"NAME":"서울"}}]}`, "share NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBoundaries(strings.NewReader(tt.input), "NAME")
			require.Error(t, err)
			assert.True(t, apierrors.IsType(err, apierrors.ErrTypeParsing))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeBoundaries_CustomKey(t *testing.T) {
	fc, err := DecodeBoundaries(strings.NewReader(testutil.UTF8BOM+testutil.SampleGeoJSON), "CODE")
	require.NoError(t, err)
	assert.Equal(t, "11", fc.Features[0].Name("CODE"))
}
