package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/farm-dashboard/internal/api/http"
	"github.com/i474232898/farm-dashboard/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := buildServices(ctx, cfg, logger)
		if err != nil {
			return err
		}
		logger.Info("starting farm dashboard",
			zap.String("port", cfg.Port),
			zap.String("crop_store", cfg.CropStorePath),
			zap.Strings("weather_providers", svc.Weather.ProviderNames()),
			zap.String("chat_provider", cfg.ChatProvider),
		)

		// Background refresh of the configured farm locations.
		sched := scheduler.New(cfg.Locations, cfg.FetchInterval, svc.Weather, logger)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		app := httpapi.NewApp(svc, logger)

		go func() {
			if err := app.Listen(":" + cfg.Port); err != nil {
				logger.Error("fiber server stopped", zap.Error(err))
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("error during shutdown", zap.Error(err))
		}
		return nil
	},
}
