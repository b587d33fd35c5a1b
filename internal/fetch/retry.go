package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// Politeness defaults applied when the configuration leaves them unset.
const (
	DefaultAttempts = 3
	DefaultDelay    = 2 * time.Second
)

// pauseController abstracts how the fetcher waits between attempts.
type pauseController interface {
	Pause(ctx context.Context, delay time.Duration)
}

type timerPauseController struct{}

func (p *timerPauseController) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Retrier implements scraper.Fetcher on top of a Getter. Every attempt,
// including the first, is preceded by the configured delay. When all
// attempts fail the target is skipped, never the run.
type Retrier struct {
	getter   Getter
	attempts int
	delay    time.Duration
	pauser   pauseController
	logger   *zap.Logger
}

// NewRetrier builds a Retrier. Non-positive attempts and a negative delay
// fall back to the defaults; a zero delay is honored as-is.
func NewRetrier(getter Getter, attempts int, delay time.Duration, logger *zap.Logger) *Retrier {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrier{
		getter:   getter,
		attempts: attempts,
		delay:    delay,
		pauser:   &timerPauseController{},
		logger:   logger,
	}
}

// Fetch retrieves url, pausing before each attempt.
func (r *Retrier) Fetch(ctx context.Context, url string) (scraper.FetchResponse, bool) {
	for attempt := 1; attempt <= r.attempts; attempt++ {
		r.pauser.Pause(ctx, r.delay)
		if err := ctx.Err(); err != nil {
			r.logger.Warn("fetch aborted", zap.String("url", url), zap.Error(err))
			return scraper.FetchResponse{}, false
		}

		start := time.Now()
		resp, err := r.getter.Get(ctx, url)
		TotalAttempts.Inc()
		if err != nil {
			TotalAttemptErrors.Inc()
			r.logger.Warn("fetch attempt failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		if resp.Duration == 0 {
			resp.Duration = time.Since(start)
		}
		FetchDuration.Observe(resp.Duration.Seconds())
		return resp, true
	}
	return scraper.FetchResponse{}, false
}
