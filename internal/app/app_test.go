package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Fetch: config.FetchConfig{
			UserAgent:  "test-agent",
			Timeout:    time.Second,
			Retries:    3,
			RetryDelay: 0,
		},
		Tabula: config.TabulaConfig{
			JavaBin: "java",
			JarPath: "tabula.jar",
		},
		Output: config.OutputConfig{
			PDFDir:       filepath.Join(dir, "raw_pdfs"),
			ProcessedDir: filepath.Join(dir, "processed_data"),
			ReportsDir:   filepath.Join(dir, "reports"),
		},
		PubSub: config.PubSubConfig{TopicID: "scraper-runs"},
	}
}

func TestNew_MinimalConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a)
	require.NotNil(t, a.Pipeline)
	require.Nil(t, a.Debug)
	require.Empty(t, a.closers)
	require.DirExists(t, cfg.Output.ProcessedDir)
	require.DirExists(t, cfg.Output.ReportsDir)

	a.Close()
}

func TestNew_WithDebugListener(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Debug.Listen = "127.0.0.1:0"

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.Debug)

	a.Close()
}

func TestNew_RejectsBadHeadlessConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Headless.Enabled = true
	cfg.Headless.MaxParallel = -1

	_, err := New(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "initialize headless renderer")
}

func TestNew_RejectsBadDatabaseDSN(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Database.DSN = "://not-a-dsn"

	_, err := New(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "initialize row store")
}

func TestClose_RunsClosersInReverseOrder(t *testing.T) {
	t.Parallel()

	a := &App{Logger: zap.NewNop()}
	var order []string
	a.addCloser("first", func() error {
		order = append(order, "first")
		return nil
	})
	a.addCloser("second", func() error {
		order = append(order, "second")
		return errors.New("close failed")
	})

	a.Close()

	require.Equal(t, []string{"second", "first"}, order)
}

func TestStopDebugNilServer(t *testing.T) {
	t.Parallel()

	a := &App{Logger: zap.NewNop()}
	a.stopDebug(nil)
}
