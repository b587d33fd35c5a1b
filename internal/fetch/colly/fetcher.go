// Package collyfetcher performs single GET attempts using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// MaxBodyBytes caps response bodies. Zero means unlimited, which bid
	// tabulation PDFs need; the collector's own default would truncate
	// them at 10 MB.
	MaxBodyBytes  int
	RespectRobots bool
}

// Getter implements fetch.Getter using the Colly collector. Each attempt
// runs on its own collector clone so callbacks never outlive their
// request.
type Getter struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Getter.
func New(cfg Config) *Getter {
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	// Retries revisit the same URL, so the collector must not dedupe.
	c.AllowURLRevisit = true
	return &Getter{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Get executes a single HTTP GET. Responses outside the 2xx range surface
// as errors, matching the collector's error callback behavior.
func (g *Getter) Get(ctx context.Context, rawURL string) (scraper.FetchResponse, error) {
	var (
		result   scraper.FetchResponse
		fetchErr error
	)
	collector := g.buildCollector(time.Now(), &result, &fetchErr)
	if err := g.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		return scraper.FetchResponse{}, err
	}
	return result, nil
}

func (g *Getter) buildCollector(start time.Time, result *scraper.FetchResponse, fetchErr *error) *colly.Collector {
	collector := g.baseCollector.Clone()
	if g.cfg.UserAgent != "" {
		collector.UserAgent = g.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = !g.cfg.RespectRobots
	collector.MaxBodySize = g.cfg.MaxBodyBytes
	timeout := g.cfg.Timeout
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	collector.OnResponse(func(r *colly.Response) {
		*result = scraper.FetchResponse{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		*fetchErr = err
	})
	return collector
}

func (g *Getter) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
