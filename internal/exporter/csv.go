package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"localtaxdash/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// StreamWriter writes CSV records one at a time.
type StreamWriter struct {
	writer *csv.Writer
	count  int
}

// NewStreamWriter writes the optional BOM and header row to w.
func NewStreamWriter(w io.Writer, options WriteOptions) (*StreamWriter, error) {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record %d: %w", s.count, err)
	}
	s.count++
	return nil
}

// Count returns the number of records written, excluding the header.
func (s *StreamWriter) Count() int {
	return s.count
}

// Close flushes buffered records.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	return s.writer.Error()
}

// WriteLongCSV writes long rows to w in the given order and returns the number
// of data rows written.
func WriteLongCSV(w io.Writer, rows []domain.LongRow) (int, error) {
	sw, err := NewStreamWriter(w, WriteOptions{Headers: longHeaders, BOMPrefix: true})
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if err := sw.WriteRecord(longRecord(r)); err != nil {
			return sw.Count(), err
		}
	}
	return sw.Count(), sw.Close()
}

// WriteDeltasCSV writes a delta set to w. An empty set yields the header only.
func WriteDeltasCSV(w io.Writer, set domain.DeltaSet) (int, error) {
	sw, err := NewStreamWriter(w, WriteOptions{Headers: deltaHeaders, BOMPrefix: true})
	if err != nil {
		return 0, err
	}
	for _, r := range set.Rows {
		if err := sw.WriteRecord(deltaRecord(set, r)); err != nil {
			return sw.Count(), err
		}
	}
	return sw.Count(), sw.Close()
}
