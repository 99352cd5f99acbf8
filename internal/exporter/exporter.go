package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/internal/files"
	"localtaxdash/pkg/contracts/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx", case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatCSV):
		return FormatCSV, nil
	case string(FormatXLSX):
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// LongFileName is the export name of the long table.
func LongFileName(f Format) string {
	return "long." + string(f)
}

// DeltasFileName is the export name of a delta set.
func DeltasFileName(year int, category domain.Category, f Format) string {
	return fmt.Sprintf("deltas_%d_%s.%s", year, category, f)
}

// WriteLong writes long rows to w in format f.
func WriteLong(w io.Writer, rows []domain.LongRow, f Format) (int, error) {
	if f == FormatXLSX {
		return WriteLongXLSX(w, rows)
	}
	return WriteLongCSV(w, rows)
}

// WriteDeltas writes a delta set to w in format f.
func WriteDeltas(w io.Writer, set domain.DeltaSet, f Format) (int, error) {
	if f == FormatXLSX {
		return WriteDeltasXLSX(w, set)
	}
	return WriteDeltasCSV(w, set)
}

// Exporter writes exports into the managed export directory.
type Exporter struct {
	manager *files.Manager
	logger  *slog.Logger
}

// New creates an exporter backed by manager.
func New(manager *files.Manager, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		manager: manager,
		logger:  logger.With(slog.String("component", "exporter")),
	}
}

// ExportLong writes the long table under name (LongFileName when empty).
func (e *Exporter) ExportLong(name string, rows []domain.LongRow, f Format) (string, int, error) {
	if name == "" {
		name = LongFileName(f)
	}
	return e.export(name, func(w io.Writer) (int, error) {
		return WriteLong(w, rows, f)
	})
}

// ExportDeltas writes a delta set under name (DeltasFileName when empty).
func (e *Exporter) ExportDeltas(name string, set domain.DeltaSet, f Format) (string, int, error) {
	if name == "" {
		name = DeltasFileName(set.Year, set.Category, f)
	}
	return e.export(name, func(w io.Writer) (int, error) {
		return WriteDeltas(w, set, f)
	})
}

func (e *Exporter) export(name string, write func(io.Writer) (int, error)) (string, int, error) {
	var n int
	path, err := e.manager.WriteExport(name, func(w io.Writer) error {
		var err error
		n, err = write(w)
		return err
	})
	if err != nil {
		return "", 0, apierrors.NewStorageError("export failed", err).WithContext("name", name)
	}

	e.logger.Info("export completed",
		slog.String("path", path),
		slog.Int("rows", n))
	return path, n, nil
}
