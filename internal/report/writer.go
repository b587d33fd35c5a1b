// Package report writes the aggregated bid tables to timestamped CSV
// files.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// Writer implements scraper.ReportWriter. Each run produces one file in
// the configured directory, named nc_bid_data_<timestamp>.csv.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter returns a Writer rooted at dir. The directory is created on
// first write.
func NewWriter(dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		dir:    dir,
		logger: logger,
	}
}

// WriteReport merges the tables into one CSV. The header is the union of
// every table's columns in first-appearance order; cells a table never
// had stay empty.
func (w *Writer) WriteReport(ctx context.Context, tables []scraper.BidTable, runTime time.Time) (string, int, error) {
	if len(tables) == 0 {
		return "", 0, errors.New("no tables to write")
	}
	if err := ctx.Err(); err != nil {
		return "", 0, fmt.Errorf("context canceled: %w", err)
	}

	columns, rows := merge(tables)

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", 0, fmt.Errorf("create report dir %s: %w", w.dir, err)
	}
	name := fmt.Sprintf("nc_bid_data_%s.csv", runTime.Format("20060102_150405"))
	outputPath := filepath.Join(w.dir, name)

	f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("create report %s: %w", outputPath, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		f.Close()
		return "", 0, fmt.Errorf("write report header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return "", 0, fmt.Errorf("write report rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("close report %s: %w", outputPath, err)
	}

	w.logger.Debug("wrote report",
		zap.String("path", outputPath),
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(rows)))
	return outputPath, len(rows), nil
}

// merge flattens the tables onto one shared header.
func merge(tables []scraper.BidTable) ([]string, [][]string) {
	var columns []string
	index := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}

	var rows [][]string
	for _, t := range tables {
		for _, r := range t.Rows {
			row := make([]string, len(columns))
			for i, c := range t.Columns {
				if i >= len(r) {
					break
				}
				row[index[c]] = r[i]
			}
			rows = append(rows, row)
		}
	}
	return columns, rows
}
