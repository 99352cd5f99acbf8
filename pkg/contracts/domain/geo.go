package domain

import "encoding/json"

// Feature is a GeoJSON feature. Geometry is kept verbatim since only the
// properties are ever inspected.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Name returns the string stored under key in the feature properties.
func (f Feature) Name(key string) string {
	if f.Properties == nil {
		return ""
	}
	name, _ := f.Properties[key].(string)
	return name
}
