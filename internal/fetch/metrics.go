package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalAttempts tracks HTTP GET attempts, including retries.
	TotalAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_fetch_attempts_total",
		Help: "The total number of HTTP GET attempts, including retries.",
	})
	// TotalAttemptErrors tracks GET attempts that failed.
	TotalAttemptErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_fetch_attempt_errors_total",
		Help: "The total number of failed HTTP GET attempts.",
	})
	// FetchDuration observes the latency of successful GET attempts.
	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scraper_fetch_duration_seconds",
		Help:    "The latency of successful HTTP GET attempts.",
		Buckets: prometheus.DefBuckets,
	})
	// RateLimitDelay observes time spent waiting on per-host token buckets.
	RateLimitDelay = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scraper_fetch_rate_limit_delay_seconds",
		Help:    "Time spent waiting for per-host rate limit tokens.",
		Buckets: prometheus.DefBuckets,
	})
	// TotalRenders tracks pages upgraded to a headless render.
	TotalRenders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_fetch_renders_total",
		Help: "The total number of pages upgraded to a headless render.",
	})
	// TotalRenderErrors tracks headless renders that failed.
	TotalRenderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_fetch_render_errors_total",
		Help: "The total number of failed headless renders.",
	})
)
