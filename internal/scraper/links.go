package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkKeywords are the terms that mark an anchor as a candidate bid
// document. Matching is case-insensitive against the anchor text.
var linkKeywords = []string{"bid", "tabulation", "letting", "award", "solicitation", "project"}

// ExtractProjectLinks parses an HTML page and returns every anchor that
// looks like a bid PDF: its text contains one of the bid keywords and its
// href ends in ".pdf". Relative hrefs are resolved against pageURL. Anchors
// with unparseable hrefs are skipped.
func ExtractProjectLinks(pageURL string, body []byte) ([]ProjectLink, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var links []ProjectLink
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if !matchesKeyword(name) {
			return
		}
		// The extension check runs on the raw href, so query strings
		// after ".pdf" disqualify the link.
		if !strings.HasSuffix(strings.ToLower(href), ".pdf") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, ProjectLink{
			Name:   name,
			URL:    base.ResolveReference(ref).String(),
			Source: pageURL,
		})
	})
	return links, nil
}

func matchesKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range linkKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DedupeLinks collapses links that share a URL. The first occurrence fixes
// the position in the output; a later occurrence with the same URL replaces
// the earlier entry, so the last-seen name and source win.
func DedupeLinks(links []ProjectLink) []ProjectLink {
	seen := make(map[string]int, len(links))
	out := make([]ProjectLink, 0, len(links))
	for _, link := range links {
		if i, ok := seen[link.URL]; ok {
			out[i] = link
			continue
		}
		seen[link.URL] = len(out)
		out = append(out, link)
	}
	return out
}
