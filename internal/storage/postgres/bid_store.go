// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// validTableName guards against SQL injection since table names cannot be
// parameterized in prepared statements.
var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// BidStoreConfig holds the settings for the Postgres bid store.
type BidStoreConfig struct {
	// DSN is the Postgres connection string.
	DSN string
	// TablesTable is the table extracted bid tables are inserted into.
	// Defaults to "bid_tables".
	TablesTable string
	// RunsTable is the table run summaries are inserted into. Defaults
	// to "scrape_runs".
	RunsTable string
	// MaxConns caps the pool size. Zero keeps the pgxpool default.
	MaxConns int32
	// MinConns sets the number of idle connections the pool maintains.
	MinConns int32
	// MaxConnLifetime bounds how long a single connection is reused.
	MaxConnLifetime time.Duration
}

// pgxPool is the subset of pgxpool.Pool the store uses, kept narrow so
// tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// BidStore persists extracted bid tables and run summaries in Postgres.
// It implements scraper.RowStore.
type BidStore struct {
	pool        pgxPool
	tablesTable string
	runsTable   string
}

// NewBidStore connects a pgx pool using the provided configuration.
func NewBidStore(ctx context.Context, cfg BidStoreConfig) (*BidStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	tablesTable, runsTable, err := tableNames(cfg.TablesTable, cfg.RunsTable)
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &BidStore{pool: pool, tablesTable: tablesTable, runsTable: runsTable}, nil
}

// NewBidStoreWithPool creates a BidStore from an existing pool (primarily
// for testing).
func NewBidStoreWithPool(pool pgxPool, tablesTable, runsTable string) (*BidStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	tt, rt, err := tableNames(tablesTable, runsTable)
	if err != nil {
		return nil, err
	}
	return &BidStore{pool: pool, tablesTable: tt, runsTable: rt}, nil
}

func tableNames(tablesTable, runsTable string) (string, string, error) {
	if tablesTable == "" {
		tablesTable = "bid_tables"
	}
	if runsTable == "" {
		runsTable = "scrape_runs"
	}
	for _, name := range []string{tablesTable, runsTable} {
		if !validTableName.MatchString(name) {
			return "", "", fmt.Errorf("invalid table name: %s", name)
		}
	}
	return tablesTable, runsTable, nil
}

// SaveTable inserts one accepted table. The column list and row data are
// stored as JSONB documents so the schema survives header changes on the
// source sites.
func (s *BidStore) SaveTable(ctx context.Context, runID string, table scraper.BidTable) error {
	if runID == "" {
		return fmt.Errorf("run id is required")
	}

	columnsJSON, err := json.Marshal(table.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}
	rowsJSON, err := json.Marshal(table.Rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			run_id,
			columns,
			row_data,
			row_count
		) VALUES (
			$1, $2, $3, $4
		)`, s.tablesTable)

	if _, err := s.pool.Exec(ctx, query, runID, columnsJSON, rowsJSON, len(table.Rows)); err != nil {
		return fmt.Errorf("insert bid table: %w", err)
	}
	return nil
}

// SaveRun inserts the summary row for a finished run. The full stats
// struct is stored as JSONB next to the queryable columns.
func (s *BidStore) SaveRun(ctx context.Context, stats scraper.RunStats) error {
	if stats.RunID == "" {
		return fmt.Errorf("run id is required")
	}

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal run stats: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			run_id,
			mode,
			started_at,
			finished_at,
			stats
		) VALUES (
			$1, $2, $3, $4, $5
		)`, s.runsTable)

	args := []any{
		stats.RunID,
		string(stats.Mode),
		stats.StartedAt,
		stats.FinishedAt,
		statsJSON,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scrape run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent run summaries, newest first.
func (s *BidStore) ListRuns(ctx context.Context, limit int) ([]scraper.RunStats, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT stats
		FROM %s
		ORDER BY started_at DESC
		LIMIT $1`, s.runsTable)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []scraper.RunStats
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		var stats scraper.RunStats
		if err := json.Unmarshal(raw, &stats); err != nil {
			return nil, fmt.Errorf("decode run stats: %w", err)
		}
		runs = append(runs, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Close releases the connection pool. Safe to call on a nil store.
func (s *BidStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}
