package files

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/pkg/contracts/domain"
)

// Supported source formats, keyed by file extension.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads the wide source table from disk.
type Loader struct {
	entityColumn string
	sheet        string
	logger       *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSheet selects the workbook sheet for XLSX sources. The first sheet is
// used when unset.
func WithSheet(name string) LoaderOption {
	return func(l *Loader) {
		l.sheet = name
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader that keys rows by entityColumn.
func NewLoader(entityColumn string, opts ...LoaderOption) *Loader {
	l := &Loader{
		entityColumn: entityColumn,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(slog.String("component", "source_loader"))
	return l
}

// DetectFormat returns the source format implied by the file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", apierrors.NewParsingError(
			fmt.Sprintf("unsupported source format %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

// Load reads the file at path into a RawTable.
func (l *Loader) Load(ctx context.Context, path string) (domain.RawTable, error) {
	start := time.Now()

	format, err := DetectFormat(path)
	if err != nil {
		return domain.RawTable{}, err
	}

	var records [][]string
	var lines []int
	switch format {
	case FormatCSV:
		records, lines, err = l.readCSVFile(path)
	case FormatXLSX:
		records, lines, err = l.readWorkbook(path)
	}
	if err != nil {
		return domain.RawTable{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	raw, err := buildRawTable(records, lines, l.entityColumn)
	if err != nil {
		var appErr *apierrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return domain.RawTable{}, err
	}
	raw.Source = path

	l.logger.InfoContext(ctx, "source table loaded",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("rows", len(raw.Rows)),
		slog.Int("labels", len(raw.Labels)),
		slog.Duration("duration", time.Since(start)))

	return raw, nil
}

func (l *Loader) readCSVFile(path string) ([][]string, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, apierrors.NewStorageError("failed to open source file", err).
			WithContext("path", path)
	}
	defer f.Close()

	records, lines, err := readCSV(f)
	if err != nil {
		return nil, nil, apierrors.NewParsingError("failed to read CSV source", err).
			WithContext("path", path)
	}
	return records, lines, nil
}

// ReadCSV parses a wide CSV table from r. A leading UTF-8 BOM is ignored.
func ReadCSV(r io.Reader, entityColumn string) (domain.RawTable, error) {
	records, lines, err := readCSV(r)
	if err != nil {
		return domain.RawTable{}, apierrors.NewParsingError("failed to read CSV source", err)
	}
	return buildRawTable(records, lines, entityColumn)
}

func readCSV(r io.Reader) ([][]string, []int, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true

	var records [][]string
	var lines []int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func (l *Loader) readWorkbook(path string) ([][]string, []int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apierrors.NewStorageError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, apierrors.NewParsingError("workbook has no sheets", nil).
				WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, apierrors.NewParsingError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheet)
	}

	// GetRows drops trailing empty cells; pad to the header width.
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}

	l.logger.Debug("workbook sheet read",
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))

	return rows, lines, nil
}

// buildRawTable maps header-keyed records onto a RawTable. The entity column
// may sit anywhere in the header; every other column is a year×category label.
func buildRawTable(records [][]string, lines []int, entityColumn string) (domain.RawTable, error) {
	if len(records) == 0 {
		return domain.RawTable{}, apierrors.NewParsingError("source table is empty", nil)
	}

	header := records[0]
	entityIdx := -1
	labels := make([]string, 0, len(header))
	labelIdx := make([]int, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == entityColumn && entityIdx < 0 {
			entityIdx = i
			continue
		}
		if name == "" {
			continue
		}
		labels = append(labels, name)
		labelIdx = append(labelIdx, i)
	}
	if entityIdx < 0 {
		return domain.RawTable{}, apierrors.NewParsingError(
			fmt.Sprintf("entity column %q not found in header", entityColumn), nil).
			WithContext("header", header)
	}

	raw := domain.RawTable{
		EntityColumn: entityColumn,
		Labels:       labels,
		Rows:         make([]domain.RawRow, 0, len(records)-1),
	}

	for n, record := range records[1:] {
		if blank(record) {
			continue
		}
		line := lines[n+1]
		if len(record) != len(header) {
			return domain.RawTable{}, apierrors.NewParsingError(
				fmt.Sprintf("line %d: expected %d fields, got %d", line, len(header), len(record)), nil).
				WithContext("line", line)
		}

		cells := make(map[string]string, len(labels))
		for j, label := range labels {
			cells[label] = record[labelIdx[j]]
		}
		raw.Rows = append(raw.Rows, domain.RawRow{
			Entity: strings.TrimSpace(record[entityIdx]),
			Cells:  cells,
			Line:   line,
		})
	}

	return raw, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
