/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the bonus engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Install the JSON slog logger
  3. Initialize SQLite store
  4. Load the weight table (WEIGHTS_FILE or built-in)
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port
  -db      SQLite database path; ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Close database connection
  4. Exit

ENVIRONMENT:
  PORT, DB_PATH, LOG_LEVEL, WEIGHTS_FILE, BATCH_CONCURRENCY,
  SHUTDOWN_TIMEOUT, CORS_ORIGINS. See config/config.go.

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment parsing
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/bonus-engine/api"
	"github.com/warp/bonus-engine/config"
	"github.com/warp/bonus-engine/factory"
	"github.com/warp/bonus-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	logger := config.InitLogger(cfg.LogLevel)

	if err := run(cfg, *port, *dbPath, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, port int, dbPath string, logger *slog.Logger) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	weights := factory.DefaultWeightConfig()
	if cfg.WeightsFile != "" {
		weights, err = factory.LoadWeightConfig(cfg.WeightsFile)
		if err != nil {
			return err
		}
	}

	handler, err := api.NewHandler(store, weights, cfg.BatchConcurrency, logger)
	if err != nil {
		return fmt.Errorf("build calculator: %w", err)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", port, "db", dbPath, "weights", cfg.WeightsFile)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
