// Package export dumps the whole record table as a semicolon-separated file.
//
// Files start with a UTF-8 byte-order mark so spreadsheet tools detect the
// encoding and keep accented characters intact.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/natefinch/atomic"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/record"
)

// Delimiter separates fields. Free text often contains commas.
const Delimiter = ';'

// BOM is the UTF-8 byte-order mark written before the header row.
const BOM = "\ufeff"

// Source yields every stored record in column order.
type Source interface {
	QueryAll(ctx context.Context) ([]record.Patient, error)
}

// Exporter exports a Source.
type Exporter struct {
	src Source
	log *slog.Logger
}

// New creates an exporter. A nil logger uses slog.Default.
func New(src Source, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{src: src, log: log}
}

// ExportAll returns the column headers in schema order and one row per
// record, values verbatim.
func (e *Exporter) ExportAll(ctx context.Context) ([]string, [][]string, error) {
	all, err := e.src.QueryAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	headers := append([]string(nil), record.Columns...)
	rows := make([][]string, len(all))
	for i, p := range all {
		rows[i] = p.Values()
	}
	return headers, rows, nil
}

// WriteFile exports everything to path, replacing it atomically, and
// returns the number of data rows written.
func (e *Exporter) WriteFile(ctx context.Context, path string) (int, error) {
	headers, rows, err := e.ExportAll(ctx)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := Write(&buf, headers, rows); err != nil {
		return 0, err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return 0, apperr.Storage("export", fmt.Errorf("failed to write %s: %w", path, err))
	}

	e.log.Info("records exported", "path", path, "rows", len(rows))
	return len(rows), nil
}

// Write encodes headers and rows to w.
func Write(w io.Writer, headers []string, rows [][]string) error {
	if _, err := io.WriteString(w, BOM); err != nil {
		return apperr.Storage("export", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.Write(headers); err != nil {
		return apperr.Storage("export", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return apperr.Storage("export", err)
	}
	return nil
}

// Read parses a file produced by Write.
func Read(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read export: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte(BOM))))
	cr.Comma = Delimiter
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse export: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("parse export: missing header row")
	}
	return records[0], records[1:], nil
}

// DefaultFileName names an export made at t.
func DefaultFileName(t time.Time) string {
	return "historias_" + t.Format("20060102_150405") + ".csv"
}
