// Package cmd defines and implements the CLI commands for the ncbidscraper executable.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Haston00/nc-construction-data/internal/app"
	"github.com/Haston00/nc-construction-data/internal/config"
	"github.com/Haston00/nc-construction-data/internal/logging"
	"github.com/Haston00/nc-construction-data/internal/scraper"
	pkgconfig "github.com/Haston00/nc-construction-data/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use. This allows
// injecting a mock app during tests.
type App interface {
	Run(ctx context.Context, mode scraper.Mode) (scraper.RunStats, error)
	Close()
}

// newApp is the application factory. It's a variable so tests can
// replace it with a mock factory.
var newApp = func(ctx context.Context) (App, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	logging.L = logger
	zap.ReplaceGlobals(logger)

	return app.New(ctx, cfg, logger)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ncbidscraper",
		Short: "Scrapes North Carolina government bid documents into a CSV dataset.",
		Long: `ncbidscraper scans North Carolina state, county, and city procurement
portals for bid and solicitation documents, downloads the PDFs it
discovers, extracts their tables, and aggregates everything into one
timestamped CSV report.`,

		// This hook runs AFTER config is loaded but BEFORE the subcommand's
		// RunE, which makes it the place to build and inject the application.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// This hook ensures services are shut down gracefully.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	// Initialize Viper configuration once flags are parsed.
	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches ., /etc/ncbidscraper, and $HOME/.ncbidscraper)")
	cmd.PersistentFlags().Bool("dev", false, "enable development logging (console encoder, debug level)")
	if err := viper.BindPFlag("logging.development", cmd.PersistentFlags().Lookup("dev")); err != nil {
		logging.L.Warn("Failed to bind --dev flag", zap.Error(err))
	}

	cmd.AddCommand(newScrapeCmd())

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	pkgconfig.InitConfig()
}

// Execute is the main entry point.
func Execute() {
	// Initialize the logger once at the very start.
	logging.InitLogger()

	// SIGINT/SIGTERM cancel the run context; the pipeline stops between
	// documents and the command still prints what it collected.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
