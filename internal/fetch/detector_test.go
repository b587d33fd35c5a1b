package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

func TestJSDetectorSmallBody(t *testing.T) {
	d := NewJSDetector(DetectorConfig{MinHTMLBytes: 100})
	require.True(t, d.NeedsRender(scraper.FetchResponse{Body: []byte("<html></html>")}))
}

func TestJSDetectorMarker(t *testing.T) {
	d := NewJSDetector(DetectorConfig{Markers: []string{"__NEXT_DATA__"}})
	body := []byte(`<html><body><a href="/x">x</a><script id="__next_data__">{}</script></body></html>`)
	require.True(t, d.NeedsRender(scraper.FetchResponse{Body: body}), "marker match is case-insensitive")
}

func TestJSDetectorAnchorsPresent(t *testing.T) {
	d := NewJSDetector(DetectorConfig{})
	body := []byte(`<html><body><a href="/bid.pdf">Bid Tabulation</a></body></html>`)
	require.False(t, d.NeedsRender(scraper.FetchResponse{Body: body}))
}

func TestJSDetectorNoAnchors(t *testing.T) {
	d := NewJSDetector(DetectorConfig{})
	body := []byte(`<html><body><div id="root"></div>` + strings.Repeat("<p>filler</p>", 20) + `</body></html>`)
	require.True(t, d.NeedsRender(scraper.FetchResponse{Body: body}), "a page without anchors is worth a render")
}

func TestJSDetectorNilReceiver(t *testing.T) {
	var d *JSDetector
	require.False(t, d.NeedsRender(scraper.FetchResponse{}))
}
