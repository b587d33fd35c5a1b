package report

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

func TestWriteReportMergesColumns(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	tables := []scraper.BidTable{
		{
			Columns: []string{"item", "amount", "project_name"},
			Rows: [][]string{
				{"1", "100", "Bridge"},
				{"2", "250", "Bridge"},
			},
		},
		{
			Columns: []string{"bidder", "amount", "project_name"},
			Rows: [][]string{
				{"Acme", "990", "Road"},
			},
		},
	}
	runTime := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	path, rows, err := w.WriteReport(context.Background(), tables, runTime)
	require.NoError(t, err)
	require.Equal(t, 3, rows)
	require.Equal(t, filepath.Join(dir, "nc_bid_data_20240315_103000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Equal(t, [][]string{
		{"item", "amount", "project_name", "bidder"},
		{"1", "100", "Bridge", ""},
		{"2", "250", "Bridge", ""},
		{"", "990", "Road", "Acme"},
	}, records, "columns union in first-appearance order, absent cells empty")
}

func TestWriteReportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nc_data", "processed_data")
	w := NewWriter(dir, nil)

	tables := []scraper.BidTable{
		{Columns: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}},
	}
	path, _, err := w.WriteReport(context.Background(), tables, time.Now())
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestWriteReportRejectsEmptyInput(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	_, _, err := w.WriteReport(context.Background(), nil, time.Now())
	require.Error(t, err)
}

func TestWriteReportCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(t.TempDir(), nil)
	tables := []scraper.BidTable{{Columns: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}}
	_, _, err := w.WriteReport(ctx, tables, time.Now())
	require.Error(t, err)
}
