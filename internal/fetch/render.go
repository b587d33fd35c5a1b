package fetch

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// RenderingGetter upgrades thin seed pages to a browser render. Document
// URLs are never rendered; only HTML pages carry links worth re-fetching.
// A failed render falls back to the plain response.
type RenderingGetter struct {
	inner    Getter
	renderer Renderer
	detector Detector
	logger   *zap.Logger
}

// NewRenderingGetter wraps inner with the render upgrade. Either a nil
// renderer or a nil detector disables the upgrade entirely.
func NewRenderingGetter(inner Getter, renderer Renderer, detector Detector, logger *zap.Logger) *RenderingGetter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenderingGetter{
		inner:    inner,
		renderer: renderer,
		detector: detector,
		logger:   logger,
	}
}

// Get fetches via the inner Getter and re-fetches with the renderer when
// the page looks script-driven.
func (g *RenderingGetter) Get(ctx context.Context, rawURL string) (scraper.FetchResponse, error) {
	resp, err := g.inner.Get(ctx, rawURL)
	if err != nil {
		return resp, err
	}
	if g.renderer == nil || g.detector == nil || isDocumentURL(rawURL) {
		return resp, nil
	}
	if !g.detector.NeedsRender(resp) {
		return resp, nil
	}

	TotalRenders.Inc()
	rendered, err := g.renderer.Render(ctx, rawURL)
	if err != nil {
		TotalRenderErrors.Inc()
		g.logger.Warn("headless render failed, using plain response",
			zap.String("url", rawURL), zap.Error(err))
		return resp, nil
	}
	return rendered, nil
}

func isDocumentURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}
