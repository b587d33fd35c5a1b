package scraper

import (
	"strconv"
	"strings"
	"time"
)

// provenanceColumns are appended to every kept table, in this order.
var provenanceColumns = []string{
	"project_name",
	"source_url",
	"pdf_source_file",
	"pdf_table_index",
	"scrape_timestamp",
}

// NormalizeHeader rewrites a raw column header into its canonical form:
// lower-cased, carriage returns and newlines folded to spaces, surrounding
// whitespace trimmed, and remaining spaces joined with underscores. Runs of
// spaces are not collapsed, so "Total  Bid" becomes "total__bid".
func NormalizeHeader(raw string) string {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, " ", "_")
}

// Acceptable reports whether an extracted table has enough shape to keep:
// at least two columns and at least one data row.
func Acceptable(t RawTable) bool {
	return len(t.Headers) >= 2 && len(t.Rows) >= 1
}

// Annotate converts a raw table into a BidTable. Headers are normalized,
// the provenance columns are appended, and every row is extended with the
// matching provenance values. Rows shorter than the header are padded with
// empty cells and longer rows are truncated, so every row in the result
// has exactly len(Columns) cells.
func Annotate(raw RawTable, link ProjectLink, pdfFile string, tableIndex int, scrapedAt time.Time) BidTable {
	columns := make([]string, 0, len(raw.Headers)+len(provenanceColumns))
	for _, h := range raw.Headers {
		columns = append(columns, NormalizeHeader(h))
	}
	columns = append(columns, provenanceColumns...)

	provenance := []string{
		link.Name,
		link.URL,
		pdfFile,
		strconv.Itoa(tableIndex),
		scrapedAt.Format(time.RFC3339),
	}

	rows := make([][]string, 0, len(raw.Rows))
	for _, r := range raw.Rows {
		row := make([]string, len(raw.Headers), len(columns))
		copy(row, r)
		row = append(row, provenance...)
		rows = append(rows, row)
	}
	return BidTable{Columns: columns, Rows: rows}
}
