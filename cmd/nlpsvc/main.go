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
	"github.com/citypulse/eventmap/internal/domain"
	logpkg "github.com/citypulse/eventmap/internal/logger"
	"github.com/citypulse/eventmap/internal/metrics"
	"github.com/citypulse/eventmap/internal/repository/pipecache"
	chiTransport "github.com/citypulse/eventmap/internal/transport/chi"
	prosepipe "github.com/citypulse/eventmap/internal/transport/prose"
	analyzeuc "github.com/citypulse/eventmap/internal/usecase/analyze"
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

	logger.Info("Starting text analysis service",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("default_model", cfg.NLP.DefaultModel),
		zap.Int("cache_size", cfg.NLP.CacheSize),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterPipelineMetrics()

	loader := prosepipe.NewLoader(&prosepipe.Config{
		ModelDir: cfg.NLP.ModelDir,
		Logger:   logger,
	})
	pipelines := pipecache.New[domain.Pipeline](
		loader.Load, cfg.NLP.CacheSize, metrics.PipelineCacheTotal, logger,
	)

	analyzeSvc := analyzeuc.New(pipelines, cfg.NLP.DefaultModel)
	healthSvc := healthuc.New(map[string]healthuc.Checker{
		"pipeline": healthuc.CheckerFunc(func(ctx context.Context) error {
			_, err := pipelines.Get(ctx, cfg.NLP.DefaultModel)
			return err
		}),
	})

	server := chiTransport.NewNLPServer(analyzeSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger, map[string]string{
		"error": "internal server error",
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
