package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

var _ scraper.RowStore = (*BidStore)(nil)

func TestSaveTableInsertsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewBidStoreWithPool(mock, "", "")
	require.NoError(t, err)

	table := scraper.BidTable{
		Columns: []string{"project_name", "total_bid"},
		Rows: [][]string{
			{"I-40 Resurfacing", "1,204,000"},
			{"Bridge 114", "890,500"},
		},
	}

	mock.ExpectExec("INSERT INTO bid_tables").
		WithArgs(
			"run-1",
			[]byte(`["project_name","total_bid"]`),
			[]byte(`[["I-40 Resurfacing","1,204,000"],["Bridge 114","890,500"]]`),
			2,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.SaveTable(context.Background(), "run-1", table)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTableRequiresRunID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewBidStoreWithPool(mock, "", "")
	require.NoError(t, err)

	err = store.SaveTable(context.Background(), "", scraper.BidTable{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRunInsertsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewBidStoreWithPool(mock, "", "")
	require.NoError(t, err)

	started := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	stats := scraper.RunStats{
		RunID:           "run-1",
		Mode:            scraper.ModeFull,
		StartedAt:       started,
		FinishedAt:      started.Add(90 * time.Second),
		SeedsScanned:    7,
		LinksFound:      12,
		UniqueLinks:     9,
		PDFsProcessed:   9,
		TablesExtracted: 4,
		TablesKept:      3,
		RowsCollected:   41,
		OutputPath:      "nc_data/processed_data/nc_bid_data_20240315_103000.csv",
	}
	statsJSON, err := json.Marshal(stats)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO scrape_runs").
		WithArgs(
			stats.RunID,
			string(stats.Mode),
			stats.StartedAt,
			stats.FinishedAt,
			statsJSON,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.SaveRun(context.Background(), stats)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRunsDecodesStats(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewBidStoreWithPool(mock, "", "")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT stats").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"stats"}).
			AddRow([]byte(`{"run_id":"run-2","mode":"full","rows_collected":10}`)).
			AddRow([]byte(`{"run_id":"run-1","mode":"test","rows_collected":3}`)))

	runs, err := store.ListRuns(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-2", runs[0].RunID)
	require.Equal(t, scraper.ModeFull, runs[0].Mode)
	require.Equal(t, 10, runs[0].RowsCollected)
	require.Equal(t, "run-1", runs[1].RunID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRunsDefaultsLimit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewBidStoreWithPool(mock, "", "")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT stats").
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows([]string{"stats"}))

	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, runs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewBidStoreRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := NewBidStore(context.Background(), BidStoreConfig{})
	require.ErrorContains(t, err, "database.dsn is required")
}

func TestNewBidStoreWithPoolValidation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewBidStoreWithPool(nil, "", "")
	require.Error(t, err)

	_, err = NewBidStoreWithPool(mock, "bid tables; drop", "")
	require.ErrorContains(t, err, "invalid table name")
}

func TestCloseNilStore(t *testing.T) {
	t.Parallel()

	var store *BidStore
	require.NoError(t, store.Close())
}
