package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/mrdaiking/lingrow/internal/bootstrap"
	"github.com/mrdaiking/lingrow/internal/config"
	"github.com/mrdaiking/lingrow/internal/dashboard"
	"github.com/mrdaiking/lingrow/internal/database"
	"github.com/mrdaiking/lingrow/internal/history"
	"github.com/mrdaiking/lingrow/internal/server"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "lingrow-server",
		Short:         "Lingrow dashboard HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	location, err := cfg.Dashboard.Location()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return db.Close()
	})

	store := history.NewDBRecordStore(db)
	clock := dashboard.Clock{Now: time.Now, Location: location}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORS.AllowedOrigins,
	}))

	handler := server.NewDashboardHandler(store, clock, cfg.Dashboard)
	handler.Register(e)

	app.AddShutdownHook(e.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
