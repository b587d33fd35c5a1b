// Package tabula extracts tables from PDF documents by shelling out to
// tabula-java and decoding its JSON output.
package tabula

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/scraper"
)

// Config locates the extraction engine.
type Config struct {
	JavaBin string
	JarPath string
}

// Extractor implements scraper.TableExtractor by running tabula-java in
// stream mode over every page. The first row of each extracted table is
// treated as its header row.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// New builds an Extractor. An empty JavaBin falls back to "java" on PATH.
func New(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.JavaBin == "" {
		cfg.JavaBin = "java"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// ExtractTables runs the engine against pdfPath and decodes every table
// it reports, in order.
func (e *Extractor) ExtractTables(ctx context.Context, pdfPath string) ([]scraper.RawTable, error) {
	if e.cfg.JarPath == "" {
		return nil, errors.New("tabula jar path not configured")
	}

	e.logger.Debug("running table extraction", zap.String("pdf", pdfPath))
	cmd := exec.CommandContext(ctx, e.cfg.JavaBin, e.commandArgs(pdfPath)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run tabula: %w: %s", err, firstLine(stderr.Bytes()))
	}
	return parseTables(stdout.Bytes())
}

func (e *Extractor) commandArgs(pdfPath string) []string {
	return []string{
		"-jar", e.cfg.JarPath,
		"--pages", "all",
		"--guess",
		"--stream",
		"--format", "JSON",
		pdfPath,
	}
}

type tabulaCell struct {
	Text string `json:"text"`
}

type tabulaTable struct {
	ExtractionMethod string         `json:"extraction_method"`
	Data             [][]tabulaCell `json:"data"`
}

// parseTables decodes the engine's JSON table list. A table with no cell
// data stays in the result as an empty RawTable so later tables keep
// their positions.
func parseTables(raw []byte) ([]scraper.RawTable, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var decoded []tabulaTable
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode tabula output: %w", err)
	}

	tables := make([]scraper.RawTable, 0, len(decoded))
	for _, t := range decoded {
		table := scraper.RawTable{}
		if len(t.Data) > 0 {
			table.Headers = cellTexts(t.Data[0])
			table.Rows = make([][]string, 0, len(t.Data)-1)
			for _, r := range t.Data[1:] {
				table.Rows = append(table.Rows, cellTexts(r))
			}
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func cellTexts(cells []tabulaCell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Text
	}
	return out
}

func firstLine(b []byte) string {
	b = bytes.TrimSpace(b)
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	if len(b) == 0 {
		return "no diagnostics on stderr"
	}
	return string(b)
}
