package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/mrdaiking/lingrow/internal/config"
	"github.com/mrdaiking/lingrow/internal/dashboard"
	"github.com/mrdaiking/lingrow/internal/database"
	"github.com/mrdaiking/lingrow/internal/history"
)

var (
	configFile string
)

func main() {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "lingrow",
		Short:         "Practice progress analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newDashboardCommand(),
		newReviewCommand(),
		newHistoryCommand(),
		newImportCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// openStore loads the config and connects to the record store. The caller
// must close the returned database handle.
func openStore() (*sqlx.DB, *history.DBRecordStore, dashboard.Clock, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, dashboard.Clock{}, err
	}

	location, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, nil, dashboard.Clock{}, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, dashboard.Clock{}, fmt.Errorf("database.Open() > %w", err)
	}

	clock := dashboard.Clock{Now: time.Now, Location: location}
	return db, history.NewDBRecordStore(db), clock, nil
}
