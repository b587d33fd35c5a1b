// Package fetch retrieves seed pages and bid documents over HTTP. A
// Getter performs one GET attempt; decorators add per-host rate limiting
// and headless rendering on top of it; the Retrier owns attempt
// sequencing and is what the pipeline sees.
package fetch

import (
	"context"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// Getter performs a single GET attempt. Implementations own transport
// details; the Retrier owns attempt sequencing.
type Getter interface {
	Get(ctx context.Context, url string) (scraper.FetchResponse, error)
}

// Renderer fetches a page with a JS-capable browser and returns the
// rendered DOM.
type Renderer interface {
	Render(ctx context.Context, url string) (scraper.FetchResponse, error)
}

// Detector decides whether a fetched page needs a browser render.
type Detector interface {
	NeedsRender(page scraper.FetchResponse) bool
}
