package fetch

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// DetectorConfig tunes the render heuristic.
type DetectorConfig struct {
	// MinHTMLBytes marks any smaller body as script-driven. Zero disables
	// the size signal.
	MinHTMLBytes int
	// Markers are substrings whose presence marks a script-driven page,
	// matched case-insensitively.
	Markers []string
}

// JSDetector implements Detector using simple HTML signals. A page needs
// rendering when its body is suspiciously small, carries one of the
// configured script-framework markers, or has no anchors at all.
type JSDetector struct {
	minHTMLBytes int
	markers      [][]byte
}

// NewJSDetector constructs a Detector with the configured thresholds.
func NewJSDetector(cfg DetectorConfig) *JSDetector {
	markers := make([][]byte, 0, len(cfg.Markers))
	for _, m := range cfg.Markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		markers = append(markers, bytes.ToLower([]byte(m)))
	}
	return &JSDetector{
		minHTMLBytes: cfg.MinHTMLBytes,
		markers:      markers,
	}
}

// NeedsRender inspects the page for signals that the anchor list is built
// client-side.
func (d *JSDetector) NeedsRender(page scraper.FetchResponse) bool {
	if d == nil {
		return false
	}
	switch {
	case d.bodyBelowThreshold(page.Body):
		return true
	case d.containsMarkers(page.Body):
		return true
	default:
		return d.missingAnchors(page.Body)
	}
}

func (d *JSDetector) bodyBelowThreshold(body []byte) bool {
	return d.minHTMLBytes > 0 && len(body) < d.minHTMLBytes
}

func (d *JSDetector) containsMarkers(body []byte) bool {
	if len(body) == 0 || len(d.markers) == 0 {
		return false
	}
	lowerBody := bytes.ToLower(body)
	for _, m := range d.markers {
		if bytes.Contains(lowerBody, m) {
			return true
		}
	}
	return false
}

func (d *JSDetector) missingAnchors(body []byte) bool {
	if len(body) == 0 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return true
	}
	return doc.Find("a[href]").Length() == 0
}
