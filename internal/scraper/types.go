// Package scraper implements the bid document pipeline: seed pages are
// scanned for PDF links, the documents are downloaded, tables are pulled
// out of each document, and the run's accepted tables are written as one
// CSV report.
package scraper

import (
	"fmt"
	"time"
)

// Mode bounds the input set of a run. It never changes per-item behavior.
type Mode string

// Run modes selectable via the CLI.
const (
	// ModeTest scans only the first seed page and caps processing at
	// TestModePDFLimit documents.
	ModeTest Mode = "test"
	// ModeFull scans every seed page and processes every unique document.
	ModeFull Mode = "full"
)

// TestModePDFLimit caps how many documents a test-mode run processes.
const TestModePDFLimit = 5

// ParseMode validates a raw mode flag value.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeTest, ModeFull:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("invalid mode %q (want %q or %q)", raw, ModeTest, ModeFull)
	}
}

// ProjectLink is a candidate bid document discovered on a seed page.
type ProjectLink struct {
	// Name is the anchor text the link was discovered under.
	Name string `json:"name"`
	// URL is the absolute document URL.
	URL string `json:"url"`
	// Source is the page the link was found on.
	Source string `json:"source"`
}

// FetchResponse carries the result of a successful GET.
type FetchResponse struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// RawTable is one table as the extraction engine returned it: a header
// row plus zero or more data rows.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// BidTable is an accepted table with normalized headers and the
// provenance columns appended, ready for aggregation.
type BidTable struct {
	Columns []string
	Rows    [][]string
}

// RunStats summarizes one scrape run. It is the payload published on run
// completion and persisted by the optional row store.
type RunStats struct {
	RunID            string    `json:"run_id"`
	Mode             Mode      `json:"mode"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	SeedsScanned     int       `json:"seeds_scanned"`
	LinksFound       int       `json:"links_found"`
	UniqueLinks      int       `json:"unique_links"`
	PDFsProcessed    int       `json:"pdfs_processed"`
	DownloadFailures int       `json:"download_failures"`
	TablesExtracted  int       `json:"tables_extracted"`
	TablesKept       int       `json:"tables_kept"`
	RowsCollected    int       `json:"rows_collected"`
	OutputPath       string    `json:"output_path,omitempty"`
}
