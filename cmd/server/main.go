package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SoganiJ/InsuraX/internal/config"
	"github.com/SoganiJ/InsuraX/internal/graph"
	"github.com/SoganiJ/InsuraX/internal/logging"
	"github.com/SoganiJ/InsuraX/internal/metrics"
	"github.com/SoganiJ/InsuraX/internal/repository"
	"github.com/SoganiJ/InsuraX/internal/server"
	"github.com/SoganiJ/InsuraX/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, connected := buildGraphClient(ctx, logger, cfg)
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	if connected {
		for _, warning := range repo.EnsureSchema(ctx) {
			logger.Warn("schema statement failed", "error", warning.Message)
		}
	}

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.HTTP.MetricsEnabled {
		m = metrics.New()
		metricsHandler = m.Handler()
	}

	detectionService := service.NewDetectionService(repo, logger, m)
	apiHandlers := server.NewAPIHandlers(logger, detectionService, cfg.Detect.Timeout)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		API:              apiHandlers,
		Metrics:          metricsHandler,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, cfg.Detect.Timeout, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildGraphClient never fails the boot. Missing credentials or an
// unreachable store produce a degraded client so the API can keep answering
// with configuration hints while operators fix the environment.
func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, bool) {
	if cfg.Graph.Password == "" {
		logger.Warn("NEO4J_PASSWORD is not set, starting degraded")
		return graph.NewUnavailableClient(errors.New("NEO4J_PASSWORD not set")), false
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Warn("graph connection failed, starting degraded", "error", err, "uri", cfg.Graph.URI)
		return graph.NewUnavailableClient(err), false
	}

	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, true
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
