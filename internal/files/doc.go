// Package files reads the dashboard inputs and manages export output.
//
// Loader turns the wide source table (CSV with an optional UTF-8 BOM, or an
// XLSX workbook) into a domain.RawTable keyed by the configured entity
// column. LoadBoundaries reads the GeoJSON FeatureCollection used by the
// choropleth. Discovery lists candidate source files in a directory, and
// Manager writes export files atomically into the export directory.
//
// Example usage:
//
//	loader := files.NewLoader("시도별", files.WithLogger(logger))
//	raw, err := loader.Load(ctx, "data/tax.csv")
//
//	boundaries, err := files.LoadBoundaries("data/boundaries.json", "NAME")
package files
