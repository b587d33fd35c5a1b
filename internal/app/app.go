// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/api"
	"github.com/Haston00/nc-construction-data/internal/clock/system"
	"github.com/Haston00/nc-construction-data/internal/config"
	"github.com/Haston00/nc-construction-data/internal/fetch"
	collyfetcher "github.com/Haston00/nc-construction-data/internal/fetch/colly"
	"github.com/Haston00/nc-construction-data/internal/fetch/headless"
	"github.com/Haston00/nc-construction-data/internal/hash/sha256"
	"github.com/Haston00/nc-construction-data/internal/id/uuid"
	memorypub "github.com/Haston00/nc-construction-data/internal/publisher/memory"
	pubsubpub "github.com/Haston00/nc-construction-data/internal/publisher/pubsub"
	"github.com/Haston00/nc-construction-data/internal/report"
	"github.com/Haston00/nc-construction-data/internal/scraper"
	"github.com/Haston00/nc-construction-data/internal/storage/gcs"
	"github.com/Haston00/nc-construction-data/internal/storage/local"
	"github.com/Haston00/nc-construction-data/internal/storage/postgres"
	"github.com/Haston00/nc-construction-data/internal/tables/tabula"
)

// debugShutdownTimeout bounds how long Close waits for in-flight debug
// requests after the pipeline finishes.
const debugShutdownTimeout = 5 * time.Second

// namedCloser pairs a shutdown function with a label for error logs.
type namedCloser struct {
	name  string
	close func() error
}

// App holds the shared, long-lived services for one scrape invocation.
// It is initialized once at startup and torn down by Close after the
// command finishes.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Pipeline *scraper.Pipeline
	Debug    *api.Server

	closers []namedCloser
}

// New assembles every service the pipeline needs from the loaded
// configuration. It fails fast if any configured integration cannot be
// initialized.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Initializing application services...")

	a := &App{Config: cfg, Logger: logger}

	// 1. Fetch chain: colly base getter, then optional per-host rate
	// limiting, then optional headless rendering, wrapped last in the
	// retry policy the pipeline talks to.
	var getter fetch.Getter = collyfetcher.New(collyfetcher.Config{
		UserAgent:     cfg.Fetch.UserAgent,
		Timeout:       cfg.Fetch.Timeout,
		MaxBodyBytes:  cfg.Fetch.MaxBodyBytes,
		RespectRobots: cfg.Fetch.RespectRobots,
	})

	if cfg.Fetch.RateLimited() {
		logger.Info("Per-host rate limiting enabled",
			zap.Float64("rps", cfg.Fetch.RateLimitRPS),
			zap.Int("burst", cfg.Fetch.RateLimitBurst))
		getter = fetch.NewRateLimitedGetter(getter, fetch.RateLimitConfig{
			RPS:   cfg.Fetch.RateLimitRPS,
			Burst: cfg.Fetch.RateLimitBurst,
		})
	}

	if cfg.Headless.Enabled {
		renderer, err := headless.NewChromedp(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Fetch.UserAgent,
			NavigationTimeout: cfg.Headless.NavTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize headless renderer: %w", err)
		}
		a.addCloser("headless renderer", func() error {
			renderer.Close()
			return nil
		})
		detector := fetch.NewJSDetector(fetch.DetectorConfig{
			MinHTMLBytes: cfg.Detector.MinHTMLBytes,
			Markers:      cfg.Detector.Markers,
		})
		logger.Info("Headless rendering enabled", zap.Int("max_parallel", cfg.Headless.MaxParallel))
		getter = fetch.NewRenderingGetter(getter, renderer, detector, logger)
	}

	fetcher := fetch.NewRetrier(getter, cfg.Fetch.Retries, cfg.Fetch.RetryDelay, logger)

	// 2. Document store for the raw PDFs.
	documents, err := local.New(local.Config{BaseDir: cfg.Output.PDFDir})
	if err != nil {
		return nil, fmt.Errorf("initialize document store: %w", err)
	}

	// 3. Table extraction engine.
	extractor := tabula.New(tabula.Config{
		JavaBin: cfg.Tabula.JavaBin,
		JarPath: cfg.Tabula.JarPath,
	}, logger)

	// 4. CSV report writer. The full output layout exists from startup;
	// reports/ stays empty during a run.
	for _, dir := range []string{cfg.Output.ProcessedDir, cfg.Output.ReportsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	reports := report.NewWriter(cfg.Output.ProcessedDir, logger)

	// 5. Optional Postgres row store. Doubles as the run history source
	// for the debug listener.
	var rows scraper.RowStore
	var runLister api.RunLister
	if cfg.Database.Enabled() {
		logger.Info("Connecting to PostgreSQL...")
		store, err := postgres.NewBidStore(ctx, postgres.BidStoreConfig{
			DSN:             cfg.Database.DSN,
			TablesTable:     cfg.Database.TablesTable,
			RunsTable:       cfg.Database.RunsTable,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize row store: %w", err)
		}
		a.addCloser("row store", store.Close)
		rows = store
		runLister = store
	}

	// 6. Optional GCS artifact mirror.
	var mirror scraper.ArtifactMirror
	if cfg.Storage.GCSEnabled() {
		logger.Info("Mirroring artifacts to GCS", zap.String("bucket", cfg.Storage.GCSBucket))
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize gcs client: %w", err)
		}
		a.addCloser("gcs client", client.Close)
		mirror, err = gcs.New(client, gcs.Config{
			Bucket: cfg.Storage.GCSBucket,
			Prefix: cfg.Storage.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize gcs mirror: %w", err)
		}
	}

	// 7. Run event publisher. Without Pub/Sub configured, events land in
	// an in-process sink so the publish path always runs.
	var events scraper.Publisher
	if cfg.PubSub.Enabled() {
		logger.Info("Publishing run events to Pub/Sub", zap.String("topic", cfg.PubSub.TopicID))
		pub, err := pubsubpub.New(ctx, pubsubpub.Config{
			ProjectID: cfg.PubSub.ProjectID,
			TopicID:   cfg.PubSub.TopicID,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize pubsub publisher: %w", err)
		}
		a.addCloser("pubsub publisher", pub.Close)
		events = pub
	} else {
		events = memorypub.New()
	}

	// 8. The pipeline itself, on the built-in portal seed list.
	a.Pipeline = scraper.NewPipeline(scraper.PipelineDeps{
		Fetcher:   fetcher,
		Extractor: extractor,
		Documents: documents,
		Report:    reports,
		Rows:      rows,
		Events:    events,
		Mirror:    mirror,
		Clock:     system.New(),
		IDs:       uuid.New(),
		Hasher:    sha256.New(),
	}, scraper.SeedURLs(), cfg.PubSub.TopicID, logger)

	// 9. Optional debug listener.
	if cfg.Debug.Enabled() {
		a.Debug = api.NewServer(runLister, logger)
	}

	logger.Info("Application services initialized successfully.")
	return a, nil
}

// Run executes one scrape in the given mode, serving the debug listener
// for the duration of the run when one is configured.
func (a *App) Run(ctx context.Context, mode scraper.Mode) (scraper.RunStats, error) {
	srv := a.startDebug()
	defer a.stopDebug(srv)
	return a.Pipeline.Run(ctx, mode)
}

func (a *App) startDebug() *http.Server {
	if a.Debug == nil {
		return nil
	}
	srv := &http.Server{
		Addr:              a.Config.Debug.Listen,
		Handler:           a.Debug.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		a.Logger.Info("Starting debug listener", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Debug listener failed", zap.Error(err))
		}
	}()
	return srv
}

func (a *App) stopDebug(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), debugShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Warn("Debug listener shutdown failed", zap.Error(err))
	}
}

func (a *App) addCloser(name string, close func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: close})
}

// Close gracefully shuts down all services in the App container.
// It is called by a Cobra hook after the command finishes execution.
func (a *App) Close() {
	a.Logger.Info("Shutting down application services...")
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.Logger.Warn("Error closing service", zap.String("service", c.name), zap.Error(err))
		}
	}

	// Flush buffered log entries; stderr sync failures are expected on
	// some platforms and carry no signal.
	_ = a.Logger.Sync()
}
