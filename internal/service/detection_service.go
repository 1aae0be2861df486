// Package service orchestrates the load-and-detect cycle: it converts raw
// input records, drives the repository queries in detector order, and
// assembles the final report with risk scores and recommendations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SoganiJ/InsuraX/internal/domain"
	"github.com/SoganiJ/InsuraX/internal/graph"
	"github.com/SoganiJ/InsuraX/internal/metrics"
	"github.com/SoganiJ/InsuraX/internal/scoring"
)

// GraphRepository is the persistence surface the detection service drives.
type GraphRepository interface {
	ReplaceAll(ctx context.Context, users []domain.User, policies []domain.Policy, claims []domain.Claim) error
	PhoneNetworks(ctx context.Context) ([]domain.Network, error)
	PolicyNetworks(ctx context.Context) ([]domain.Network, error)
	ClaimNetworks(ctx context.Context) ([]domain.Network, error)
	HighFraudScoreUsers(ctx context.Context) ([]domain.HighFraudUser, error)
	RapidClaimFilers(ctx context.Context) ([]domain.RapidFiler, error)
	RepeatClaimFilers(ctx context.Context) ([]domain.RapidFiler, error)
	UserClaimStats(ctx context.Context) ([]domain.UserClaimStats, error)
	VisualizationData(ctx context.Context) (domain.VisualizationData, error)
	Ping(ctx context.Context) error
}

// DetectionService runs fraud-ring detection cycles. A mutex serializes
// cycles: the load phase wipes the graph, so a detect racing a load would
// read a half-built graph. Detectors run in a fixed order because the
// first-wins deduplication makes the outcome order-sensitive.
type DetectionService struct {
	repo     GraphRepository
	logger   *slog.Logger
	metrics  *metrics.Metrics
	nowFn    func() time.Time
	newRunID func() string

	mu sync.Mutex
}

// NewDetectionService wires the service. The metrics handle may be nil when
// the process runs without a metrics endpoint.
func NewDetectionService(repo GraphRepository, logger *slog.Logger, m *metrics.Metrics) *DetectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetectionService{
		repo:     repo,
		logger:   logger,
		metrics:  m,
		nowFn:    time.Now,
		newRunID: func() string { return uuid.New().String() },
	}
}

// WithClock overrides the time source, primarily for tests.
func (s *DetectionService) WithClock(nowFn func() time.Time) *DetectionService {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// WithRunIDFn overrides run ID generation, primarily for tests.
func (s *DetectionService) WithRunIDFn(fn func() string) *DetectionService {
	if fn != nil {
		s.newRunID = fn
	}
	return s
}

// LoadRecords converts the raw input records and rebuilds the graph from
// them. Any load failure aborts the cycle; partially loaded data is cleaned
// up by the wipe at the start of the next load.
func (s *DetectionService) LoadRecords(ctx context.Context, users, policies, claims []map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, users, policies, claims)
}

// Detect runs the detectors and analyses against whatever graph is currently
// loaded and assembles the report.
func (s *DetectionService) Detect(ctx context.Context) (domain.DetectionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detectLocked(ctx)
}

// RunDetection is the full cycle: load the given records, then detect. The
// lock is held across both phases so no other cycle can interleave.
func (s *DetectionService) RunDetection(ctx context.Context, users, policies, claims []map[string]any) (domain.DetectionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx, users, policies, claims); err != nil {
		return domain.DetectionReport{}, err
	}
	return s.detectLocked(ctx)
}

// Visualization extracts the dashboard nodes for the loaded graph.
func (s *DetectionService) Visualization(ctx context.Context) (domain.VisualizationData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.VisualizationData(ctx)
}

// Ping reports whether the graph store answers queries. It runs outside the
// cycle lock so health probes answer during long cycles.
func (s *DetectionService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *DetectionService) loadLocked(ctx context.Context, users, policies, claims []map[string]any) error {
	now := s.nowFn().UTC()
	start := time.Now()

	err := s.repo.ReplaceAll(ctx, convertUsers(users, now), convertPolicies(policies), convertClaims(claims))
	if s.metrics != nil {
		s.metrics.LoadsTotal.WithLabelValues(statusLabel(err)).Inc()
		s.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return err
	}

	s.logger.Info("graph reloaded",
		"users", len(users),
		"policies", len(policies),
		"claims", len(claims),
		"duration", time.Since(start),
	)
	return nil
}

func (s *DetectionService) detectLocked(ctx context.Context) (domain.DetectionReport, error) {
	start := time.Now()
	report := domain.DetectionReport{
		SuspiciousNetworks: []domain.Network{},
		RiskScores:         map[string]domain.RiskRecord{},
		Recommendations:    []string{},
		RunID:              s.newRunID(),
		GeneratedAt:        s.nowFn().UTC(),
	}

	warn := func(stage string, err error) {
		s.logger.Error("detection stage failed", "stage", stage, "error", err)
		report.Warnings = append(report.Warnings, domain.Warning{Stage: stage, Message: err.Error()})
		if s.metrics != nil {
			s.metrics.WarningsTotal.WithLabelValues(stage).Inc()
		}
	}

	detectors := []struct {
		stage string
		run   func(context.Context) ([]domain.Network, error)
	}{
		{domain.NetworkTypePhone, s.repo.PhoneNetworks},
		{domain.NetworkTypePolicy, s.repo.PolicyNetworks},
		{domain.NetworkTypeClaim, s.repo.ClaimNetworks},
	}

	var networks []domain.Network
	for _, detector := range detectors {
		found, err := detector.run(ctx)
		if err != nil {
			if shouldAbort(ctx, err) {
				s.observeDetection("error", start)
				return domain.DetectionReport{}, err
			}
			warn(detector.stage, err)
			continue
		}
		networks = append(networks, found...)
	}
	report.SuspiciousNetworks = dedupeNetworks(networks)

	indicators := domain.FraudIndicators{
		HighFraudScoreUsers: []domain.HighFraudUser{},
		RapidClaimFilers:    []domain.RapidFiler{},
		RapidFilerBasis:     domain.RapidFilerBasisWindow,
		SuspiciousAmounts:   []map[string]any{},
		TimePatterns:        []map[string]any{},
		DocumentPatterns:    []map[string]any{},
	}

	highFraud, err := s.repo.HighFraudScoreUsers(ctx)
	if err != nil {
		if shouldAbort(ctx, err) {
			s.observeDetection("error", start)
			return domain.DetectionReport{}, err
		}
		warn("high_fraud_score_users", err)
	} else {
		indicators.HighFraudScoreUsers = highFraud
	}

	filers, err := s.repo.RapidClaimFilers(ctx)
	if err != nil {
		if shouldAbort(ctx, err) {
			s.observeDetection("error", start)
			return domain.DetectionReport{}, err
		}
		warn("rapid_claim_filers", err)
	}
	if len(filers) == 0 {
		fallback, err := s.repo.RepeatClaimFilers(ctx)
		switch {
		case err != nil:
			if shouldAbort(ctx, err) {
				s.observeDetection("error", start)
				return domain.DetectionReport{}, err
			}
			warn("repeat_claim_filers", err)
		case len(fallback) > 0:
			filers = fallback
			indicators.RapidFilerBasis = domain.RapidFilerBasisFallback
		}
	}
	if filers != nil {
		indicators.RapidClaimFilers = filers
	}
	report.FraudIndicators = indicators

	stats, err := s.repo.UserClaimStats(ctx)
	if err != nil {
		if shouldAbort(ctx, err) {
			s.observeDetection("error", start)
			return domain.DetectionReport{}, err
		}
		warn("risk_scores", err)
	}
	for _, stat := range stats {
		report.RiskScores[stat.UserID] = riskRecord(stat)
	}

	report.Recommendations = buildRecommendations(report)

	if s.metrics != nil {
		for _, network := range report.SuspiciousNetworks {
			s.metrics.NetworksFound.WithLabelValues(network.Type).Inc()
		}
	}
	s.observeDetection("ok", start)

	s.logger.Info("detection cycle complete",
		"run_id", report.RunID,
		"networks", len(report.SuspiciousNetworks),
		"high_fraud_users", len(report.FraudIndicators.HighFraudScoreUsers),
		"rapid_filers", len(report.FraudIndicators.RapidClaimFilers),
		"scored_users", len(report.RiskScores),
		"warnings", len(report.Warnings),
		"duration", time.Since(start),
	)
	return report, nil
}

func (s *DetectionService) observeDetection(status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.DetectionsTotal.WithLabelValues(status).Inc()
	s.metrics.DetectionDuration.Observe(time.Since(start).Seconds())
}

// shouldAbort distinguishes failures that sink the whole cycle from ones a
// single stage can absorb. An unreachable store or a dead context will fail
// every remaining stage, so continuing would only pile up noise.
func shouldAbort(ctx context.Context, err error) bool {
	return errors.Is(err, graph.ErrUnavailable) || ctx.Err() != nil
}

// dedupeNetworks keeps the first network seen for each unordered user pair.
// Detectors run phone, policy, claim, so the earliest detector's evidence
// wins for a pair flagged by more than one.
func dedupeNetworks(networks []domain.Network) []domain.Network {
	seen := make(map[string]struct{}, len(networks))
	unique := make([]domain.Network, 0, len(networks))
	for _, network := range networks {
		pair := append([]string(nil), network.Users...)
		sort.Strings(pair)
		key := strings.Join(pair, "|")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, network)
	}
	return unique
}

func riskRecord(stat domain.UserClaimStats) domain.RiskRecord {
	displayName := stat.DisplayName
	if displayName == "" {
		displayName = "Unknown User"
	}
	email := stat.Email
	if email == "" {
		email = "No email"
	}
	return domain.RiskRecord{
		OverallRisk:    scoring.OverallUserRisk(stat.ClaimCount, stat.AvgFraudScore, stat.TotalAmount),
		ClaimCount:     stat.ClaimCount,
		AvgFraudScore:  stat.AvgFraudScore,
		TotalAmount:    stat.TotalAmount,
		MaxClaimAmount: stat.MaxClaimAmount,
		DisplayName:    displayName,
		Email:          email,
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
