// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultUserAgent matches what the target sites expect from a desktop
// browser. Several of the procurement portals reject generic bot agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config captures every knob of the scrape job loaded via Viper.
type Config struct {
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Detector DetectorConfig `mapstructure:"detector"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Tabula   TabulaConfig   `mapstructure:"tabula"`
	Output   OutputConfig   `mapstructure:"output"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Debug    DebugConfig    `mapstructure:"debug"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// FetchConfig governs page and document retrieval.
type FetchConfig struct {
	UserAgent      string        `mapstructure:"user_agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Retries        int           `mapstructure:"retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	MaxBodyBytes   int           `mapstructure:"max_body_bytes"`
	RespectRobots  bool          `mapstructure:"respect_robots"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// RateLimited reports whether per-host throttling is configured.
func (c FetchConfig) RateLimited() bool {
	return c.RateLimitRPS > 0
}

// DetectorConfig tunes the scripted-page heuristic.
type DetectorConfig struct {
	MinHTMLBytes int      `mapstructure:"min_html_bytes"`
	Markers      []string `mapstructure:"markers"`
}

// HeadlessConfig configures the optional browser rendering subsystem.
type HeadlessConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxParallel int           `mapstructure:"max_parallel"`
	NavTimeout  time.Duration `mapstructure:"nav_timeout"`
}

// TabulaConfig locates the external table extraction engine.
type TabulaConfig struct {
	JavaBin string `mapstructure:"java_bin"`
	JarPath string `mapstructure:"jar_path"`
}

// OutputConfig sets where documents and reports land on disk.
// ReportsDir is created alongside the other two at startup; no job
// step writes into it yet.
type OutputConfig struct {
	PDFDir       string `mapstructure:"pdf_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
	ReportsDir   string `mapstructure:"reports_dir"`
}

// StorageConfig selects the optional artifact mirror backend.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// GCSEnabled reports whether artifacts should be mirrored to GCS.
func (c StorageConfig) GCSEnabled() bool {
	return c.Backend == "gcs"
}

// DatabaseConfig controls the optional Postgres row store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	TablesTable     string        `mapstructure:"tables_table"`
	RunsTable       string        `mapstructure:"runs_table"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// Enabled reports whether row persistence is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}

// PubSubConfig holds metadata for run completion notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// Enabled reports whether run events should be published.
func (c PubSubConfig) Enabled() bool {
	return c.ProjectID != "" && c.TopicID != ""
}

// DebugConfig controls the optional debug HTTP listener.
type DebugConfig struct {
	Listen string `mapstructure:"listen"`
}

// Enabled reports whether the debug listener should be started.
func (c DebugConfig) Enabled() bool {
	return c.Listen != ""
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from an optional file path plus environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NCBID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a Config from an already
// initialized Viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers every default on the given Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("fetch.user_agent", defaultUserAgent)
	v.SetDefault("fetch.timeout", "45s")
	v.SetDefault("fetch.retries", 3)
	v.SetDefault("fetch.retry_delay", "2s")
	v.SetDefault("fetch.max_body_bytes", 0)
	v.SetDefault("fetch.respect_robots", false)
	v.SetDefault("fetch.rate_limit_rps", 0)
	v.SetDefault("fetch.rate_limit_burst", 1)

	v.SetDefault("detector.min_html_bytes", 2048)
	v.SetDefault("detector.markers", []string{
		"__NEXT_DATA__",
		"data-reactroot",
		"ng-app",
		"window.__APOLLO_STATE__",
	})

	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.max_parallel", 2)
	v.SetDefault("headless.nav_timeout", "45s")

	v.SetDefault("tabula.java_bin", "java")
	v.SetDefault("tabula.jar_path", "tabula.jar")

	v.SetDefault("output.pdf_dir", "nc_data/raw_pdfs")
	v.SetDefault("output.processed_dir", "nc_data/processed_data")
	v.SetDefault("output.reports_dir", "nc_data/reports")

	v.SetDefault("database.tables_table", "bid_tables")
	v.SetDefault("database.runs_table", "scrape_runs")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.max_conn_lifetime", "30m")

	v.SetDefault("pubsub.topic_id", "scraper-runs")

	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Fetch.UserAgent == "" {
		return fmt.Errorf("fetch.user_agent must be set")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Fetch.Retries <= 0 {
		return fmt.Errorf("fetch.retries must be > 0")
	}
	if c.Fetch.RetryDelay < 0 {
		return fmt.Errorf("fetch.retry_delay must be >= 0")
	}
	if c.Fetch.RateLimitRPS < 0 {
		return fmt.Errorf("fetch.rate_limit_rps must be >= 0")
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	if c.Tabula.JarPath == "" {
		return fmt.Errorf("tabula.jar_path must be set")
	}
	if c.Output.PDFDir == "" || c.Output.ProcessedDir == "" {
		return fmt.Errorf("output.pdf_dir and output.processed_dir must be set")
	}
	switch c.Storage.Backend {
	case "", "none":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("storage.gcs_bucket must be set when backend is gcs")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.PubSub.ProjectID != "" && c.PubSub.TopicID == "" {
		return fmt.Errorf("pubsub.topic_id must be set when pubsub.project_id is set")
	}
	return nil
}
