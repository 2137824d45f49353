package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"orderbuilder/internal/api"
	"orderbuilder/internal/config"
	"orderbuilder/internal/database"
	"orderbuilder/internal/logging"
	"orderbuilder/internal/monitoring"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	port       = flag.Int("port", 0, "API server port (overrides config)")
	seed       = flag.Bool("seed", true, "Seed the catalog when it is empty")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv(), nil
	}
	return config.Load(path)
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if *seed {
		n, err := database.SeedCatalog(db, database.DefaultCatalog())
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("seeded catalog", zap.Int("items", n))
		}
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	monitor := monitoring.NewMonitor()
	backend := api.NewServer(
		database.NewCatalogRepository(db),
		database.NewOrderRepository(db, logger),
		api.WithLogger(logger),
		api.WithMonitor(monitor),
		api.WithHistoryLimit(cfg.Feed.HistoryLimit),
	)
	defer backend.Close()

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: backend.Router(),
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = newMetricsServer(cfg.Metrics)
		go func() {
			logger.Info("starting metrics server", zap.String("addr", metricsServer.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutting down servers", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API server shutdown error", zap.Error(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown error", zap.Error(err))
		}
	}
	return nil
}

// newMetricsServer exposes the process and Go runtime collectors of the
// default registry.
func newMetricsServer(cfg config.MetricsConfig) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.GET(cfg.Path, gin.WrapH(promhttp.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: metricsRouter,
	}
}
