/*
PURPOSE:
  Writes flat dataset rows to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - One CSV per sheet (performance, each evaluation set).
  - Columns indexed purely by name; header is the union of all row keys.

  Implementation-discovered:
  - Dynamic battery/sensor columns differ between devices, so the header
    can only be known once every row exists (see Columns).
  - Missing cells are written empty, never zero.

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Consumes: internal/model.Row

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).

USAGE:
  w, err := output.NewCSVWriter("llama_perf.csv", output.Columns(rows))
  w.Write(row)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If value rendering changes, update FormatValue (shared with XLSX/SQLite).

RELATED FILES:
  - internal/model/row.go
  - internal/output/table.go

MAINTENANCE:
  - None.
*/

package output

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/daryltucker/forest-bench/internal/model"
)

// CSVWriter handles writing rows to a CSV file.
type CSVWriter struct {
	file   io.WriteCloser
	writer *csv.Writer
	header []string
}

// NewCSVWriter creates a new CSVWriter with the given header.
// It overwrites the file if it exists.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
		header: header,
	}, nil
}

// Write writes a single row, ordered by the header.
func (cw *CSVWriter) Write(r model.Row) error {
	record := make([]string, len(cw.header))
	for i, col := range cw.header {
		if v, ok := r.Get(col); ok {
			record[i] = FormatValue(v)
		}
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}

// WriteCSV writes a whole sheet to path.
func WriteCSV(path string, rows []model.Row) error {
	w, err := NewCSVWriter(path, Columns(rows))
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
