package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalSeedPages tracks the number of seed pages scanned.
	TotalSeedPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_seed_pages_total",
		Help: "The total number of seed pages scanned.",
	})
	// TotalSeedPageErrors tracks seed pages that could not be fetched.
	TotalSeedPageErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_seed_page_errors_total",
		Help: "The total number of seed pages that failed to fetch.",
	})
	// TotalDocuments tracks the number of PDF documents downloaded and stored.
	TotalDocuments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_documents_total",
		Help: "The total number of PDF documents downloaded and stored.",
	})
	// TotalDocumentErrors tracks documents that could not be fetched or stored.
	TotalDocumentErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_document_errors_total",
		Help: "The total number of documents that failed to download or store.",
	})
	// TotalTablesExtracted tracks tables returned by the extraction engine.
	TotalTablesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_tables_extracted_total",
		Help: "The total number of tables returned by the extraction engine.",
	})
	// TotalTablesKept tracks tables that passed the shape filter.
	TotalTablesKept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_tables_kept_total",
		Help: "The total number of tables kept after filtering.",
	})
	// TotalRows tracks the number of bid rows collected across all kept tables.
	TotalRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_rows_total",
		Help: "The total number of bid rows collected.",
	})
)
