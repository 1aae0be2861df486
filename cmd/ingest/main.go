package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/SoganiJ/InsuraX/internal/config"
	"github.com/SoganiJ/InsuraX/internal/graph"
	"github.com/SoganiJ/InsuraX/internal/logging"
	"github.com/SoganiJ/InsuraX/internal/repository"
	"github.com/SoganiJ/InsuraX/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir   = flag.String("dataset-dir", "./seed-data", "Directory containing users.json, policies.json, and claims.json")
		usersPath    = flag.String("users", "", "Path to users.json (overrides dataset-dir)")
		policiesPath = flag.String("policies", "", "Path to policies.json (overrides dataset-dir)")
		claimsPath   = flag.String("claims", "", "Path to claims.json (overrides dataset-dir)")
		timeout      = flag.Duration("timeout", 5*time.Minute, "Overall timeout for load and detection")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The report goes to stdout, so logs take stderr.
	logger := logging.NewWithWriter(cfg.Logging, os.Stderr).With("component", "ingest")

	userFile, policyFile, claimFile, err := resolveDatasetPaths(*datasetDir, *usersPath, *policiesPath, *claimsPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	users, err := loadRecords(userFile)
	if err != nil {
		logger.Error("failed to load users", "error", err, "path", userFile)
		os.Exit(1)
	}
	policies, err := loadRecords(policyFile)
	if err != nil {
		logger.Error("failed to load policies", "error", err, "path", policyFile)
		os.Exit(1)
	}
	claims, err := loadRecords(claimFile)
	if err != nil {
		logger.Error("failed to load claims", "error", err, "path", claimFile)
		os.Exit(1)
	}
	if len(users) == 0 {
		logger.Error("users dataset empty", "path", userFile)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	for _, warning := range repo.EnsureSchema(ctx) {
		logger.Warn("schema statement failed", "error", warning.Message)
	}

	svc := service.NewDetectionService(repo, logger, nil)

	start := time.Now()
	logger.Info("running detection", "users", len(users), "policies", len(policies), "claims", len(claims))

	report, err := svc.RunDetection(ctx, users, policies, claims)
	if err != nil {
		logger.Error("detection failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("failed to encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	logger.Info("detection complete",
		"duration", time.Since(start).String(),
		"networks", len(report.SuspiciousNetworks),
		"scored_users", len(report.RiskScores),
		"warnings", len(report.Warnings),
	)
}

func resolveDatasetPaths(baseDir, usersPath, policiesPath, claimsPath string) (string, string, string, error) {
	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	userFile, err := resolve(usersPath, "users.json")
	if err != nil {
		return "", "", "", err
	}
	policyFile, err := resolve(policiesPath, "policies.json")
	if err != nil {
		return "", "", "", err
	}
	claimFile, err := resolve(claimsPath, "claims.json")
	if err != nil {
		return "", "", "", err
	}
	return userFile, policyFile, claimFile, nil
}

func loadRecords(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var records []map[string]any
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

// buildGraphClient fails hard, unlike the server. A batch run without a
// reachable graph store has nothing useful to do.
func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
