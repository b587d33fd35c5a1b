package scraper

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// Pipeline runs the scrape job end to end: scan seed pages, download the
// discovered documents, extract their tables, and write one CSV report.
// It is single-threaded; seed pages and documents are processed in order.
type Pipeline struct {
	deps   PipelineDeps
	seeds  []string
	topic  string
	logger *zap.Logger
}

// PipelineDeps carries the collaborators a Pipeline needs. Fetcher,
// Extractor, Documents, Report, Clock, IDs, and Hasher are required.
// Rows, Events, and Mirror are optional integrations; nil disables them.
type PipelineDeps struct {
	Fetcher   Fetcher
	Extractor TableExtractor
	Documents DocumentStore
	Report    ReportWriter
	Rows      RowStore
	Events    Publisher
	Mirror    ArtifactMirror
	Clock     Clock
	IDs       IDGenerator
	Hasher    Hasher
}

// NewPipeline constructs a Pipeline. An empty seeds slice selects the
// built-in portal list; topic names the event topic for run summaries.
func NewPipeline(deps PipelineDeps, seeds []string, topic string, logger *zap.Logger) *Pipeline {
	if len(seeds) == 0 {
		seeds = SeedURLs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		deps:   deps,
		seeds:  seeds,
		topic:  topic,
		logger: logger,
	}
}

// Run executes one scrape in the given mode and returns its stats. A
// failed seed page or document is logged and skipped; Run only fails when
// it cannot allocate a run ID, the context is cancelled, or the final
// report cannot be written.
func (p *Pipeline) Run(ctx context.Context, mode Mode) (RunStats, error) {
	runID, err := p.deps.IDs.NewID()
	if err != nil {
		return RunStats{}, fmt.Errorf("allocate run id: %w", err)
	}

	stats := RunStats{
		RunID:     runID,
		Mode:      mode,
		StartedAt: p.deps.Clock.Now(),
	}
	log := p.logger.With(zap.String("run_id", runID), zap.String("mode", string(mode)))

	seeds := p.seeds
	if mode == ModeTest {
		seeds = seeds[:1]
	}

	var found []ProjectLink
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("run cancelled: %w", err)
		}
		found = append(found, p.scanSeedPage(ctx, log, seed)...)
		stats.SeedsScanned++
	}
	stats.LinksFound = len(found)

	unique := DedupeLinks(found)
	stats.UniqueLinks = len(unique)
	log.Info("discovered unique project documents", zap.Int("count", len(unique)))

	if mode == ModeTest && len(unique) > TestModePDFLimit {
		unique = unique[:TestModePDFLimit]
	}

	allocator := NewNameAllocator(p.deps.Hasher)
	var collected []BidTable
	for _, link := range unique {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("run cancelled: %w", err)
		}
		res := p.processDocument(ctx, log, runID, allocator, link)
		if !res.downloaded {
			stats.DownloadFailures++
			continue
		}
		stats.PDFsProcessed++
		stats.TablesExtracted += res.extracted
		stats.TablesKept += len(res.tables)
		for _, t := range res.tables {
			stats.RowsCollected += len(t.Rows)
		}
		collected = append(collected, res.tables...)
	}

	if len(collected) == 0 {
		log.Warn("no data extracted, report not created")
	} else {
		outputPath, rows, err := p.deps.Report.WriteReport(ctx, collected, p.deps.Clock.Now())
		if err != nil {
			return stats, fmt.Errorf("write report: %w", err)
		}
		stats.OutputPath = outputPath
		log.Info("saved bid rows", zap.Int("rows", rows), zap.String("path", outputPath))
		p.mirrorReport(ctx, log, outputPath)
	}

	stats.FinishedAt = p.deps.Clock.Now()
	p.finishRun(ctx, log, stats)
	return stats, nil
}

// scanSeedPage fetches one seed page and extracts its project links. A
// page that cannot be fetched or parsed contributes no links.
func (p *Pipeline) scanSeedPage(ctx context.Context, log *zap.Logger, seed string) []ProjectLink {
	log.Info("searching for project links", zap.String("page", seed))
	resp, ok := p.deps.Fetcher.Fetch(ctx, seed)
	TotalSeedPages.Inc()
	if !ok {
		TotalSeedPageErrors.Inc()
		return nil
	}
	links, err := ExtractProjectLinks(seed, resp.Body)
	if err != nil {
		TotalSeedPageErrors.Inc()
		log.Warn("parse seed page failed", zap.String("page", seed), zap.Error(err))
		return nil
	}
	log.Info("found potential document links", zap.Int("count", len(links)), zap.String("page", seed))
	return links
}

// docResult reports what one document contributed to the run. A document
// that could not be fetched or stored has downloaded false and counts as
// a download failure; extraction problems after a successful download
// leave downloaded true with zero tables.
type docResult struct {
	downloaded bool
	extracted  int
	tables     []BidTable
}

func (p *Pipeline) processDocument(ctx context.Context, log *zap.Logger, runID string, allocator *NameAllocator, link ProjectLink) docResult {
	log.Info("processing document", zap.String("name", link.Name), zap.String("url", link.URL))

	resp, ok := p.deps.Fetcher.Fetch(ctx, link.URL)
	if !ok {
		TotalDocumentErrors.Inc()
		return docResult{}
	}

	filename, err := allocator.Allocate(link)
	if err != nil {
		TotalDocumentErrors.Inc()
		log.Warn("derive document filename failed", zap.String("url", link.URL), zap.Error(err))
		return docResult{}
	}

	storedPath, err := p.deps.Documents.SaveDocument(ctx, filename, resp.Body)
	if err != nil {
		TotalDocumentErrors.Inc()
		log.Warn("store document failed", zap.String("file", filename), zap.Error(err))
		return docResult{}
	}
	TotalDocuments.Inc()

	if p.deps.Mirror != nil {
		if _, err := p.deps.Mirror.PutObject(ctx, path.Join("raw_pdfs", filename), "application/pdf", resp.Body); err != nil {
			log.Warn("mirror document failed", zap.String("file", filename), zap.Error(err))
		}
	}

	res := docResult{downloaded: true}
	raws, err := p.deps.Extractor.ExtractTables(ctx, storedPath)
	if err != nil {
		log.Error("table extraction failed", zap.String("file", filename), zap.Error(err))
		return res
	}
	if len(raws) == 0 {
		log.Warn("no tables found in document", zap.String("file", filename))
		return res
	}
	res.extracted = len(raws)
	TotalTablesExtracted.Add(float64(len(raws)))

	// The table index records the position in the extracted list, so a
	// rejected table still advances the numbering.
	for i, raw := range raws {
		if !Acceptable(raw) {
			continue
		}
		table := Annotate(raw, link, filename, i, p.deps.Clock.Now())
		res.tables = append(res.tables, table)
		TotalTablesKept.Inc()
		TotalRows.Add(float64(len(table.Rows)))

		if p.deps.Rows != nil {
			if err := p.deps.Rows.SaveTable(ctx, runID, table); err != nil {
				log.Warn("persist table rows failed", zap.String("file", filename), zap.Error(err))
			}
		}
	}
	log.Info("extracted tables from document",
		zap.String("file", filename),
		zap.Int("tables", len(raws)),
		zap.Int("kept", len(res.tables)))
	return res
}

// mirrorReport copies the finished CSV to secondary storage. Failures are
// logged and ignored.
func (p *Pipeline) mirrorReport(ctx context.Context, log *zap.Logger, outputPath string) {
	if p.deps.Mirror == nil {
		return
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		log.Warn("read report for mirroring failed", zap.String("path", outputPath), zap.Error(err))
		return
	}
	object := path.Join("processed_data", filepath.Base(outputPath))
	if _, err := p.deps.Mirror.PutObject(ctx, object, "text/csv", data); err != nil {
		log.Warn("mirror report failed", zap.String("path", outputPath), zap.Error(err))
	}
}

// finishRun persists the run summary and publishes the completion event.
// Neither failure fails the run.
func (p *Pipeline) finishRun(ctx context.Context, log *zap.Logger, stats RunStats) {
	if p.deps.Rows != nil {
		if err := p.deps.Rows.SaveRun(ctx, stats); err != nil {
			log.Warn("persist run summary failed", zap.Error(err))
		}
	}
	if p.deps.Events != nil && p.topic != "" {
		id, err := p.deps.Events.Publish(ctx, p.topic, stats)
		if err != nil {
			log.Warn("publish run event failed", zap.Error(err))
			return
		}
		log.Debug("published run event", zap.String("message_id", id))
	}
}
