package dataprocessing

import (
	"sort"

	"localtaxdash/pkg/contracts/domain"
)

// DefaultBoundaryKey is the feature property holding the region name.
const DefaultBoundaryKey = "NAME"

// ValueProperty is the feature property a choropleth value is written to.
const ValueProperty = "value"

// Heatmap lays out every (entity, year) value of category as a grid. Missing
// cells are simply absent from Cells.
func Heatmap(t *domain.Table, category domain.Category) domain.Heatmap {
	hm := domain.Heatmap{
		Category: category,
		Entities: []string{},
		Years:    []int{},
		Cells:    []domain.HeatmapCell{},
	}

	seenEntity := make(map[string]bool)
	seenYear := make(map[int]bool)
	for _, year := range t.Years() {
		for _, entity := range t.Entities() {
			row, ok := t.Lookup(entity, year, category)
			if !ok {
				continue
			}
			if len(hm.Cells) == 0 || row.Value > hm.MaxValue {
				hm.MaxValue = row.Value
			}
			hm.Cells = append(hm.Cells, domain.HeatmapCell{Entity: entity, Year: year, Value: row.Value})
			seenEntity[entity] = true
			seenYear[year] = true
		}
	}

	for _, entity := range t.Entities() {
		if seenEntity[entity] {
			hm.Entities = append(hm.Entities, entity)
		}
	}
	for _, year := range t.Years() {
		if seenYear[year] {
			hm.Years = append(hm.Years, year)
		}
	}
	hm.NoData = len(hm.Cells) == 0
	return hm
}

// TimeSeries returns each entity's values for category in year order.
func TimeSeries(t *domain.Table, category domain.Category) domain.TimeSeries {
	ts := domain.TimeSeries{Category: category, Series: []domain.Series{}}
	years := t.Years()
	for _, entity := range t.Entities() {
		series := domain.Series{Entity: entity, Points: []domain.SeriesPoint{}}
		for _, year := range years {
			if row, ok := t.Lookup(entity, year, category); ok {
				series.Points = append(series.Points, domain.SeriesPoint{Year: year, Value: row.Value})
			}
		}
		if len(series.Points) > 0 {
			ts.Series = append(ts.Series, series)
		}
	}
	ts.NoData = len(ts.Series) == 0
	return ts
}

// PieShares splits the (year, category) total into per-entity slices, largest
// first. Percent is 0 for every slice when the total is 0.
func PieShares(t *domain.Table, year int, category domain.Category) domain.Pie {
	pie := domain.Pie{Year: year, Category: category, Slices: []domain.PieSlice{}}
	sel := Select(t, Filter{Year: year, Category: &category})
	if sel.NoData {
		pie.NoData = true
		return pie
	}

	for _, row := range sel.Rows {
		pie.Total += row.Value
	}
	for _, row := range SortByValue(sel.Rows, true) {
		slice := domain.PieSlice{Entity: row.Entity, Value: row.Value}
		if pie.Total != 0 {
			slice.Percent = row.Value / pie.Total * 100
		}
		pie.Slices = append(pie.Slices, slice)
	}
	return pie
}

// Choropleth joins sel to boundaries by matching each feature's key property
// to the entity name. Matched features are copied with the value added to
// their properties; entities without a boundary are reported as Unmatched.
// sel should be narrowed to a single category.
func Choropleth(sel domain.Selection, boundaries domain.FeatureCollection, key string, theme domain.ColorTheme) domain.Choropleth {
	if key == "" {
		key = DefaultBoundaryKey
	}
	ch := domain.Choropleth{
		Year:     sel.Year,
		Theme:    theme,
		Features: domain.FeatureCollection{Type: "FeatureCollection", Features: []domain.Feature{}},
		NoData:   sel.NoData || len(sel.Rows) == 0,
	}
	if sel.Category != nil {
		ch.Category = *sel.Category
	}
	if ch.NoData {
		return ch
	}

	values := make(map[string]float64, len(sel.Rows))
	for _, row := range sel.Rows {
		values[row.Entity] = row.Value
		if row.Value > ch.RangeMax {
			ch.RangeMax = row.Value
		}
	}

	matched := make(map[string]bool, len(values))
	for _, f := range boundaries.Features {
		name := f.Name(key)
		value, ok := values[name]
		if !ok {
			continue
		}
		props := make(map[string]any, len(f.Properties)+1)
		for k, v := range f.Properties {
			props[k] = v
		}
		props[ValueProperty] = value
		ch.Features.Features = append(ch.Features.Features, domain.Feature{
			Type:       f.Type,
			Properties: props,
			Geometry:   f.Geometry,
		})
		matched[name] = true
	}

	for entity := range values {
		if !matched[entity] {
			ch.Unmatched = append(ch.Unmatched, entity)
		}
	}
	sort.Strings(ch.Unmatched)
	return ch
}
