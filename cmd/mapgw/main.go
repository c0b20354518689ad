package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/citypulse/eventmap/internal/config"
	logpkg "github.com/citypulse/eventmap/internal/logger"
	"github.com/citypulse/eventmap/internal/metrics"
	chiTransport "github.com/citypulse/eventmap/internal/transport/chi"
	"github.com/citypulse/eventmap/internal/transport/cluster"
	heatmapuc "github.com/citypulse/eventmap/internal/usecase/heatmap"
	healthuc "github.com/citypulse/eventmap/internal/usecase/health"
	"github.com/citypulse/eventmap/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Upstream.ClusterURL == "" {
		logger.Fatal("upstream.cluster_url is required for the map gateway")
	}

	logger.Info("Starting map gateway",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cluster_url", cfg.Upstream.ClusterURL),
		zap.Int("radius_meters", cfg.Upstream.RadiusMeters),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterGatewayMetrics()

	clusterClient := cluster.New(&cluster.Config{
		URL:          cfg.Upstream.ClusterURL,
		RadiusMeters: cfg.Upstream.RadiusMeters,
		Timeout:      time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		Logger:       logger,
	})

	heatmapSvc := heatmapuc.New(clusterClient)
	healthSvc := healthuc.New(map[string]healthuc.Checker{
		"clustering": healthuc.CheckerFunc(clusterClient.Ping),
	})

	server := chiTransport.NewMapServer(heatmapSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger, map[string]string{
		"detail": "Internal server error processing data",
	}))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	run(r, cfg, logger)
}

// run starts the HTTP server and blocks until shutdown completes.
func run(handler http.Handler, cfg config.Config, logger *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
