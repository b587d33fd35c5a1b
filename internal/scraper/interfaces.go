package scraper

import (
	"context"
	"time"
)

// Fetcher retrieves a URL with the job's full retry semantics. A false
// ok means every attempt failed; callers must skip the unit of work
// rather than treat it as an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResponse, bool)
}

// TableExtractor pulls tabular data out of a saved PDF. An error or an
// empty result both mean the document contributes zero tables.
type TableExtractor interface {
	ExtractTables(ctx context.Context, pdfPath string) ([]RawTable, error)
}

// DocumentStore persists raw downloaded documents and returns the stored
// path.
type DocumentStore interface {
	SaveDocument(ctx context.Context, filename string, data []byte) (string, error)
}

// ReportWriter serializes the aggregated tables into the run's output
// file and returns its path and row count.
type ReportWriter interface {
	WriteReport(ctx context.Context, tables []BidTable, runTime time.Time) (string, int, error)
}

// RowStore persists aggregated rows and run summaries (optional
// integration; a nil store disables persistence).
type RowStore interface {
	SaveTable(ctx context.Context, runID string, table BidTable) error
	SaveRun(ctx context.Context, stats RunStats) error
	Close() error
}

// Publisher pushes run completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// ArtifactMirror copies saved artifacts to secondary storage. Mirror
// failures are never run failures.
type ArtifactMirror interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Hasher computes digests, used for filename collision suffixes.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
