package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// RateLimitConfig holds per-host politeness settings.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RateLimitedGetter delays each attempt until the target host's token
// bucket has capacity. Hosts are limited independently, so a slow county
// portal never throttles the rest of the seed list.
type RateLimitedGetter struct {
	inner        Getter
	mu           sync.Mutex
	limiters     map[string]*rate.Limiter
	defaultRate  rate.Limit
	defaultBurst int
}

// NewRateLimitedGetter wraps inner with per-host rate limiting. A
// non-positive RPS disables limiting.
func NewRateLimitedGetter(inner Getter, cfg RateLimitConfig) *RateLimitedGetter {
	r := rate.Limit(cfg.RPS)
	if cfg.RPS <= 0 {
		r = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedGetter{
		inner:        inner,
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  r,
		defaultBurst: burst,
	}
}

// Get waits for the host's limiter, then delegates to the inner Getter.
func (g *RateLimitedGetter) Get(ctx context.Context, rawURL string) (scraper.FetchResponse, error) {
	host := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	limiter := g.limiterFor(host)

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return scraper.FetchResponse{}, fmt.Errorf("rate limit wait: %w", err)
	}
	if delay := time.Since(start); delay > time.Millisecond {
		RateLimitDelay.Observe(delay.Seconds())
	}
	return g.inner.Get(ctx, rawURL)
}

func (g *RateLimitedGetter) limiterFor(host string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	limiter, ok := g.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(g.defaultRate, g.defaultBurst)
		g.limiters[host] = limiter
	}
	return limiter
}
