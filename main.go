package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/study-sensei/pkg/config"
	"github.com/ekaya-inc/study-sensei/pkg/handlers"
	"github.com/ekaya-inc/study-sensei/pkg/logging"
	"github.com/ekaya-inc/study-sensei/pkg/mcp"
	"github.com/ekaya-inc/study-sensei/pkg/mcp/tools"
	"github.com/ekaya-inc/study-sensei/pkg/middleware"
	"github.com/ekaya-inc/study-sensei/pkg/repositories"
	"github.com/ekaya-inc/study-sensei/pkg/seed"
	"github.com/ekaya-inc/study-sensei/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("tls", cfg.TLSEnabled()),
		zap.Bool("mcp", cfg.MCP.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.String("seed_file", cfg.SeedFile))

	store := repositories.NewMemoryStudyStore()

	var registry *prometheus.Registry
	var studyMetrics *services.StudyMetrics
	var httpMetrics *middleware.HTTPMetrics
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		studyMetrics = services.NewStudyMetrics(registry, store)
		httpMetrics = middleware.NewHTTPMetrics(registry)
	}

	studyService := services.NewStudyService(store, studyMetrics, logger)

	if cfg.SeedFile != "" {
		if _, err := seed.LoadFile(ctx, studyService, cfg.SeedFile, logger); err != nil {
			return fmt.Errorf("failed to load seed data: %w", err)
		}
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, store, logger).RegisterRoutes(mux)
	handlers.NewSubjectsHandler(studyService, logger).RegisterRoutes(mux)
	handlers.NewTopicsHandler(studyService, logger).RegisterRoutes(mux)
	handlers.NewRevisionHandler(studyService, logger).RegisterRoutes(mux)

	if registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer("study-sensei", cfg.Version, logger)
		tools.RegisterHealthTool(mcpServer.MCP(), cfg.Version, store)
		tools.RegisterStudyTools(mcpServer.MCP(), &tools.StudyToolDeps{StudyService: studyService})
		mux.Handle("/mcp", middleware.MCPRequestLogger(logger.Named("mcp"))(mcpServer.NewStreamableHTTPServer()))
	}

	handler := middleware.Chain(mux,
		middleware.Recover(logger),
		httpMetrics.Instrument,
		middleware.RequestLogger(logger.Named("http")),
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting study-sensei",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))

		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
