package scraper

import (
	"fmt"
	"regexp"
	"strings"
)

// nonWordChars matches every character that is not a word character,
// whitespace, or a hyphen. Those are stripped from project names before
// they become filenames.
var nonWordChars = regexp.MustCompile(`[^\w\s-]`)

// DeriveFilename turns a project display name into a local PDF filename.
// Punctuation is stripped, the result is truncated to 100 characters, and
// spaces become underscores. Only literal spaces are replaced; tabs or
// other whitespace that survived the strip are kept as-is.
func DeriveFilename(name string) string {
	cleaned := nonWordChars.ReplaceAllString(name, "")
	runes := []rune(cleaned)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return strings.ReplaceAll(string(runes), " ", "_") + ".pdf"
}

// NameAllocator hands out local filenames for downloaded PDFs. Distinct
// projects can clean down to the same name; the first project keeps the
// plain name and later ones get a short digest of their URL appended so
// no download overwrites another.
type NameAllocator struct {
	hasher Hasher
	used   map[string]struct{}
}

// NewNameAllocator returns an allocator with no names taken yet.
func NewNameAllocator(hasher Hasher) *NameAllocator {
	return &NameAllocator{
		hasher: hasher,
		used:   make(map[string]struct{}),
	}
}

// Allocate returns the filename to store the PDF for link under and marks
// it taken.
func (a *NameAllocator) Allocate(link ProjectLink) (string, error) {
	name := DeriveFilename(link.Name)
	if _, taken := a.used[name]; taken {
		digest, err := a.hasher.Hash([]byte(link.URL))
		if err != nil {
			return "", fmt.Errorf("hash url: %w", err)
		}
		if len(digest) > 8 {
			digest = digest[:8]
		}
		name = strings.TrimSuffix(name, ".pdf") + "_" + digest + ".pdf"
	}
	a.used[name] = struct{}{}
	return name, nil
}
