package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/logging"
	"github.com/Haston00/nc-construction-data/internal/scraper"
)

var modeFlag string

// newScrapeCmd creates and configures the 'scrape' subcommand. It runs
// one full pass over the procurement portals: discover documents,
// download them, extract tables, and write the CSV report.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs the bid document scrape job",
		Long: `Scans the configured North Carolina procurement portals for bid
documents, downloads the PDFs, extracts their tables, and writes the
aggregated CSV report. The default test mode stops after the first
portal and a handful of documents; use --mode full for a complete run.`,

		RunE: runScrapeCommand,
	}
	cmd.Flags().StringVar(&modeFlag, "mode", string(scraper.ModeTest),
		`run mode: "test" scans only the first portal, "full" every portal`)
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	mode, err := scraper.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	stats, err := appInstance.Run(cmd.Context(), mode)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		logging.L.Warn("Scrape interrupted, reporting partial results")
	default:
		return fmt.Errorf("run scrape: %w", err)
	}

	printRunSummary(cmd.OutOrStdout(), stats)
	logging.L.Info("Scrape command finished.", zap.String("run_id", stats.RunID))
	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

func printRunSummary(out io.Writer, stats scraper.RunStats) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Run ID", stats.RunID})
	t.AppendRow(table.Row{"Mode", stats.Mode})
	t.AppendRow(table.Row{"Seed pages scanned", stats.SeedsScanned})
	t.AppendRow(table.Row{"Links found", stats.LinksFound})
	t.AppendRow(table.Row{"Unique documents", stats.UniqueLinks})
	t.AppendRow(table.Row{"PDFs processed", stats.PDFsProcessed})
	t.AppendRow(table.Row{"Download failures", stats.DownloadFailures})
	t.AppendRow(table.Row{"Tables extracted", stats.TablesExtracted})
	t.AppendRow(table.Row{"Tables kept", stats.TablesKept})
	t.AppendRow(table.Row{"Rows collected", stats.RowsCollected})
	t.AppendRow(table.Row{"Duration", stats.FinishedAt.Sub(stats.StartedAt).Round(time.Millisecond)})
	if stats.OutputPath != "" {
		t.AppendRow(table.Row{"Report", stats.OutputPath})
	}

	t.Render()
}
