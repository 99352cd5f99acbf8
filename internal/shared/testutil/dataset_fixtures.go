package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// UTF8BOM is the byte order mark spreadsheet tools prepend to CSV exports.
const UTF8BOM = "\ufeff"

// SampleCSV is a small wide table in the layout of the regional tax file:
// a total row followed by three regions over two years.
//
// 2019 amount deltas: 대구 +700, 서울 +500, 부산 +200.
const SampleCSV = `시도별,2018년_금액,2018년_비중,2019년_금액,2019년_비중
합계,"6,000",100,"7,400",100
서울,"1,000",16.7,"1,500",20.3
부산,"2,000",33.3,"2,200",29.7
대구,"3,000",50.0,"3,700",50.0
`

// SampleEntities lists the regions of SampleCSV in sorted order.
var SampleEntities = []string{"대구", "부산", "서울"}

// SampleGeoJSON carries boundaries for 서울 and 부산 only, so 대구 is
// reported as unmatched by the choropleth.
const SampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"NAME": "서울", "CODE": "11"},
     "geometry": {"type": "Polygon", "coordinates": [[[126.8, 37.4], [127.2, 37.4], [127.2, 37.7], [126.8, 37.4]]]}},
    {"type": "Feature", "properties": {"NAME": "부산", "CODE": "21"},
     "geometry": {"type": "Polygon", "coordinates": [[[128.9, 35.0], [129.3, 35.0], [129.3, 35.3], [128.9, 35.0]]]}}
  ]
}`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteDataset writes the sample CSV (with a BOM) and boundaries into dir
// and returns their paths.
func WriteDataset(t *testing.T, dir string) (csvPath, geoPath string) {
	t.Helper()
	csvPath = WriteFile(t, dir, "tax.csv", UTF8BOM+SampleCSV)
	geoPath = WriteFile(t, dir, "boundaries.json", SampleGeoJSON)
	return csvPath, geoPath
}
