package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	httpHandler "github.com/chiptrainer/prizepicks-ev-finder/internal/handler/http"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/service"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/store"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scan scheduler with the HTTP read surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger.Info().Msg("starting ppev")

			collab, err := buildCollaborators(cfg, false, logger)
			if err != nil {
				return err
			}
			defer collab.cleanup()

			// Create context with cancellation
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Test Redis connection
			if err := collab.alerts.Ping(ctx); err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

			scanner := service.NewScanner(scannerConfig(cfg), collab.deps, logger)

			// Start scan loop in goroutine
			interval := cfg.Scan.Interval
			if interval <= 0 {
				interval = 30 * time.Minute
			}
			go runScanLoop(ctx, scanner, interval, logger)

			// Initialize HTTP handler
			recommendationsHandler := httpHandler.NewRecommendationsHandler(scanner, logger)

			// Setup HTTP server routes
			mux := http.NewServeMux()

			// Health and monitoring endpoints
			mux.HandleFunc("/health", healthHandler)
			mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
				readyHandler(w, r, collab.alerts)
			})
			mux.Handle("/metrics", promhttp.Handler())

			// Register API routes
			recommendationsHandler.RegisterRoutes(mux)
			logger.Info().Msg("API routes registered")

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      mux,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			// Start HTTP server in goroutine
			go func() {
				logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error().Err(err).Msg("HTTP server failed")
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			logger.Info().Msg("shutting down gracefully...")

			// Cancel context to stop the scan loop
			cancel()

			// Shutdown HTTP server
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown failed")
			}

			logger.Info().Msg("shutdown complete")
			return nil
		},
	}
}

// runScanLoop runs an immediate scan and then one per interval until the
// context is canceled.
func runScanLoop(ctx context.Context, scanner *service.Scanner, interval time.Duration, logger zerolog.Logger) {
	scan := func() {
		_, err := scanner.Scan(ctx)
		if err != nil && !errors.Is(err, service.ErrScanInProgress) && ctx.Err() == nil {
			logger.Error().Err(err).Msg("scan failed")
		}
	}

	scan()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scan()
		}
	}
}

// healthHandler returns 200 if service is running
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler returns 200 if service is ready to accept traffic
func readyHandler(w http.ResponseWriter, r *http.Request, alerts *store.RedisStore) {
	// Check Redis connection
	if err := alerts.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Redis unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
