package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Haston00/nc-construction-data/internal/hash/sha256"
)

func TestDeriveFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation stripped", "2024 Bid Tabulation: I-40 (Final)", "2024_Bid_Tabulation_I-40_Final.pdf"},
		{"slashes dropped without a separator", "Bid: Road/Bridge (Final)!!", "Bid_RoadBridge_Final.pdf"},
		{"hyphens kept", "US-74 Letting", "US-74_Letting.pdf"},
		{"empty name", "", ".pdf"},
		{"truncated to 100 chars", strings.Repeat("a", 150), strings.Repeat("a", 100) + ".pdf"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DeriveFilename(tc.in))
		})
	}
}

func TestDeriveFilenameTruncatesBeforeUnderscores(t *testing.T) {
	// The 100-char cut happens on the cleaned name, before spaces become
	// underscores, so a space at position 99 still turns into one.
	in := strings.Repeat("a", 99) + " bcd"
	want := strings.Repeat("a", 99) + "_.pdf"
	require.Equal(t, want, DeriveFilename(in))
}

func TestNameAllocatorCollision(t *testing.T) {
	hasher := sha256.New()
	allocator := NewNameAllocator(hasher)

	first := ProjectLink{Name: "Award List", URL: "https://a.gov/2023/awards.pdf"}
	second := ProjectLink{Name: "Award List", URL: "https://a.gov/2024/awards.pdf"}

	got1, err := allocator.Allocate(first)
	require.NoError(t, err)
	require.Equal(t, "Award_List.pdf", got1, "first project keeps the plain name")

	got2, err := allocator.Allocate(second)
	require.NoError(t, err)
	digest, err := hasher.Hash([]byte(second.URL))
	require.NoError(t, err)
	require.Equal(t, "Award_List_"+digest[:8]+".pdf", got2, "colliding name gets a URL digest suffix")
}

func TestNameAllocatorDistinctNames(t *testing.T) {
	allocator := NewNameAllocator(sha256.New())

	got1, err := allocator.Allocate(ProjectLink{Name: "Bridge Letting", URL: "https://a.gov/b.pdf"})
	require.NoError(t, err)
	got2, err := allocator.Allocate(ProjectLink{Name: "Road Letting", URL: "https://a.gov/r.pdf"})
	require.NoError(t, err)

	require.Equal(t, "Bridge_Letting.pdf", got1)
	require.Equal(t, "Road_Letting.pdf", got2)
}
