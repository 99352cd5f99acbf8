// Package exporter writes the long tax table and delta sets as CSV or XLSX.
//
// CSV output carries a UTF-8 BOM so spreadsheet tools detect the encoding of
// the Korean region names. XLSX output stores values as numbers.
//
// The Write* functions target any io.Writer (an HTTP response, stdout); the
// Exporter type writes into the export directory through files.Manager.
//
// Example usage:
//
//	n, err := exporter.WriteDeltasCSV(w, set)
//
//	exp := exporter.New(manager, logger)
//	path, rows, err := exp.ExportLong("", table.Rows(), exporter.FormatXLSX)
package exporter
