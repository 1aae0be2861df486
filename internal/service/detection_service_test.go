package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/SoganiJ/InsuraX/internal/domain"
	"github.com/SoganiJ/InsuraX/internal/graph"
)

type stubRepository struct {
	replacedUsers    []domain.User
	replacedPolicies []domain.Policy
	replacedClaims   []domain.Claim
	replaceErr       error

	phoneNetworks  []domain.Network
	phoneErr       error
	policyNetworks []domain.Network
	policyErr      error
	claimNetworks  []domain.Network
	claimErr       error
	detectorsRun   int

	highFraud    []domain.HighFraudUser
	highFraudErr error

	rapidFilers  []domain.RapidFiler
	rapidErr     error
	repeatFilers []domain.RapidFiler
	repeatErr    error
	repeatCalled bool

	stats    []domain.UserClaimStats
	statsErr error

	viz     domain.VisualizationData
	vizErr  error
	pingErr error
}

func (s *stubRepository) ReplaceAll(_ context.Context, users []domain.User, policies []domain.Policy, claims []domain.Claim) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replacedUsers = users
	s.replacedPolicies = policies
	s.replacedClaims = claims
	return nil
}

func (s *stubRepository) PhoneNetworks(context.Context) ([]domain.Network, error) {
	s.detectorsRun++
	return s.phoneNetworks, s.phoneErr
}

func (s *stubRepository) PolicyNetworks(context.Context) ([]domain.Network, error) {
	s.detectorsRun++
	return s.policyNetworks, s.policyErr
}

func (s *stubRepository) ClaimNetworks(context.Context) ([]domain.Network, error) {
	s.detectorsRun++
	return s.claimNetworks, s.claimErr
}

func (s *stubRepository) HighFraudScoreUsers(context.Context) ([]domain.HighFraudUser, error) {
	return s.highFraud, s.highFraudErr
}

func (s *stubRepository) RapidClaimFilers(context.Context) ([]domain.RapidFiler, error) {
	return s.rapidFilers, s.rapidErr
}

func (s *stubRepository) RepeatClaimFilers(context.Context) ([]domain.RapidFiler, error) {
	s.repeatCalled = true
	return s.repeatFilers, s.repeatErr
}

func (s *stubRepository) UserClaimStats(context.Context) ([]domain.UserClaimStats, error) {
	return s.stats, s.statsErr
}

func (s *stubRepository) VisualizationData(context.Context) (domain.VisualizationData, error) {
	return s.viz, s.vizErr
}

func (s *stubRepository) Ping(context.Context) error {
	return s.pingErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pairNetwork(netType, a, b string) domain.Network {
	return domain.Network{
		Type:       netType,
		Users:      []string{a, b},
		UserNames:  []string{"Unknown", "Unknown"},
		UserEmails: []string{"No email", "No email"},
		RiskScore:  0.5,
		Details:    map[string]any{},
	}
}

func TestRunDetectionAssemblesReport(t *testing.T) {
	stub := &stubRepository{
		phoneNetworks: []domain.Network{pairNetwork(domain.NetworkTypePhone, "USR-1", "USR-2")},
		highFraud:     []domain.HighFraudUser{{UserID: "USR-3", ClaimCount: 2, AvgFraudScore: 0.9}},
		rapidFilers:   []domain.RapidFiler{{UserID: "USR-4", ClaimCount: 3, TotalAmount: 90000}},
		stats: []domain.UserClaimStats{
			{UserID: "USR-1", ClaimCount: 10, AvgFraudScore: 0.8, TotalAmount: 2000000, MaxClaimAmount: 500000},
			{UserID: "USR-5", DisplayName: "Meera Iyer", Email: "meera@example.com", ClaimCount: 6, AvgFraudScore: 0.5, TotalAmount: 1200000, MaxClaimAmount: 400000},
		},
	}
	fixed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewDetectionService(stub, testLogger(), nil).
		WithClock(func() time.Time { return fixed }).
		WithRunIDFn(func() string { return "run-123" })

	users := []map[string]any{{"id": "USR-1", "email": "asha@example.com"}}
	policies := []map[string]any{{"policyId": "POL-1", "policy_annual_premium": "24000", "userId": "USR-1"}}
	claims := []map[string]any{{"claimId": "CLM-1", "fraudScore": 1.7, "claimAmount": 120000.0, "userId": "USR-1"}}

	report, err := svc.RunDetection(context.Background(), users, policies, claims)
	if err != nil {
		t.Fatalf("RunDetection returned error: %v", err)
	}

	if report.RunID != "run-123" {
		t.Errorf("unexpected run id: %q", report.RunID)
	}
	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("unexpected generated at: %v", report.GeneratedAt)
	}
	if len(report.SuspiciousNetworks) != 1 {
		t.Fatalf("expected 1 network, got %d", len(report.SuspiciousNetworks))
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", report.Warnings)
	}

	// Input conversion: id key accepted for the user ID, string premium
	// coerced, out-of-range fraud score clamped, CreatedAt stamped.
	if len(stub.replacedUsers) != 1 || stub.replacedUsers[0].UserID != "USR-1" {
		t.Fatalf("unexpected converted users: %+v", stub.replacedUsers)
	}
	if !stub.replacedUsers[0].CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt not stamped from clock: %v", stub.replacedUsers[0].CreatedAt)
	}
	if stub.replacedPolicies[0].AnnualPremium != 24000 {
		t.Errorf("string premium not coerced: %v", stub.replacedPolicies[0].AnnualPremium)
	}
	if stub.replacedClaims[0].FraudScore != 1.0 {
		t.Errorf("fraud score not clamped: %v", stub.replacedClaims[0].FraudScore)
	}

	// Risk weighting: 10 claims and 2M total saturate their components.
	record, ok := report.RiskScores["USR-1"]
	if !ok {
		t.Fatal("missing risk record for USR-1")
	}
	if math.Abs(record.OverallRisk-0.9) > 1e-9 {
		t.Errorf("unexpected overall risk: %v", record.OverallRisk)
	}
	if record.DisplayName != "Unknown User" || record.Email != "No email" {
		t.Errorf("missing contact fallbacks: %+v", record)
	}
	second := report.RiskScores["USR-5"]
	if math.Abs(second.OverallRisk-0.63) > 1e-9 {
		t.Errorf("unexpected overall risk for USR-5: %v", second.OverallRisk)
	}
	if second.DisplayName != "Meera Iyer" {
		t.Errorf("display name overwritten: %+v", second)
	}

	wantRecommendations := []string{
		"1 suspicious networks detected - investigate immediately",
		"1 high-risk users identified - manual review required",
		"1 users filing claims rapidly - investigate patterns",
	}
	if len(report.Recommendations) != len(wantRecommendations) {
		t.Fatalf("unexpected recommendations: %v", report.Recommendations)
	}
	for i, want := range wantRecommendations {
		if report.Recommendations[i] != want {
			t.Errorf("recommendation %d = %q, want %q", i, report.Recommendations[i], want)
		}
	}
}

func TestDetectDeduplicatesByUserPair(t *testing.T) {
	stub := &stubRepository{
		phoneNetworks:  []domain.Network{pairNetwork(domain.NetworkTypePhone, "USR-1", "USR-2")},
		policyNetworks: []domain.Network{pairNetwork(domain.NetworkTypePolicy, "USR-2", "USR-1")},
		claimNetworks:  []domain.Network{pairNetwork(domain.NetworkTypeClaim, "USR-1", "USR-3")},
	}
	svc := NewDetectionService(stub, testLogger(), nil)

	report, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(report.SuspiciousNetworks) != 2 {
		t.Fatalf("expected 2 networks after dedup, got %d", len(report.SuspiciousNetworks))
	}
	// The phone detector runs first, so its network wins the shared pair even
	// though the policy detector listed the users in reverse order.
	if report.SuspiciousNetworks[0].Type != domain.NetworkTypePhone {
		t.Errorf("expected phone network to win the pair, got %q", report.SuspiciousNetworks[0].Type)
	}
	if report.SuspiciousNetworks[1].Type != domain.NetworkTypeClaim {
		t.Errorf("expected claim network second, got %q", report.SuspiciousNetworks[1].Type)
	}
}

func TestDetectFallsBackToRepeatFilers(t *testing.T) {
	stub := &stubRepository{
		repeatFilers: []domain.RapidFiler{
			{UserID: "USR-1", ClaimCount: 4},
			{UserID: "USR-2", ClaimCount: 2},
		},
	}
	svc := NewDetectionService(stub, testLogger(), nil)

	report, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if !stub.repeatCalled {
		t.Fatal("fallback query not attempted")
	}
	if report.FraudIndicators.RapidFilerBasis != domain.RapidFilerBasisFallback {
		t.Errorf("unexpected basis: %q", report.FraudIndicators.RapidFilerBasis)
	}
	if len(report.FraudIndicators.RapidClaimFilers) != 2 {
		t.Fatalf("fallback filers missing: %+v", report.FraudIndicators)
	}
	if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "repeat claims") {
		t.Errorf("fallback should reword the recommendation: %v", report.Recommendations)
	}
}

func TestDetectKeepsWindowedBasis(t *testing.T) {
	stub := &stubRepository{
		rapidFilers: []domain.RapidFiler{{UserID: "USR-1", ClaimCount: 3}},
	}
	svc := NewDetectionService(stub, testLogger(), nil)

	report, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if stub.repeatCalled {
		t.Error("fallback must not run when the windowed signal has results")
	}
	if report.FraudIndicators.RapidFilerBasis != domain.RapidFilerBasisWindow {
		t.Errorf("unexpected basis: %q", report.FraudIndicators.RapidFilerBasis)
	}
}

func TestDetectIsolatesDetectorFailure(t *testing.T) {
	stub := &stubRepository{
		phoneNetworks: []domain.Network{pairNetwork(domain.NetworkTypePhone, "USR-1", "USR-2")},
		policyErr:     errors.New("policy query exploded"),
		claimNetworks: []domain.Network{pairNetwork(domain.NetworkTypeClaim, "USR-3", "USR-4")},
	}
	svc := NewDetectionService(stub, testLogger(), nil)

	report, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("detector failure must not sink the cycle: %v", err)
	}
	if len(report.SuspiciousNetworks) != 2 {
		t.Errorf("surviving detectors should still report: %+v", report.SuspiciousNetworks)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %+v", report.Warnings)
	}
	if report.Warnings[0].Stage != domain.NetworkTypePolicy {
		t.Errorf("unexpected warning stage: %q", report.Warnings[0].Stage)
	}
}

func TestDetectAbortsWhenStoreUnavailable(t *testing.T) {
	stub := &stubRepository{
		phoneErr: fmt.Errorf("phone networks query: %w", graph.ErrUnavailable),
	}
	svc := NewDetectionService(stub, testLogger(), nil)

	_, err := svc.Detect(context.Background())
	if !errors.Is(err, graph.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if stub.detectorsRun != 1 {
		t.Errorf("remaining detectors should not run, got %d", stub.detectorsRun)
	}
}

func TestRunDetectionAbortsOnLoadFailure(t *testing.T) {
	stub := &stubRepository{
		replaceErr: errors.New("create user \"USR-2\": constraint violation"),
	}
	svc := NewDetectionService(stub, testLogger(), nil)

	_, err := svc.RunDetection(context.Background(), []map[string]any{{"uid": "USR-1"}}, nil, nil)
	if err == nil {
		t.Fatal("expected load error to abort the cycle")
	}
	if stub.detectorsRun != 0 {
		t.Errorf("detectors must not run after a failed load, got %d", stub.detectorsRun)
	}
}

func TestDetectEmptyGraphShape(t *testing.T) {
	svc := NewDetectionService(&stubRepository{}, testLogger(), nil)

	report, err := svc.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if report.SuspiciousNetworks == nil || len(report.SuspiciousNetworks) != 0 {
		t.Errorf("networks must be an empty slice, got %#v", report.SuspiciousNetworks)
	}
	if report.RiskScores == nil || len(report.RiskScores) != 0 {
		t.Errorf("risk scores must be an empty map, got %#v", report.RiskScores)
	}
	if report.Recommendations == nil || len(report.Recommendations) != 0 {
		t.Errorf("recommendations must be an empty slice, got %#v", report.Recommendations)
	}
	ind := report.FraudIndicators
	if ind.HighFraudScoreUsers == nil || ind.RapidClaimFilers == nil ||
		ind.SuspiciousAmounts == nil || ind.TimePatterns == nil || ind.DocumentPatterns == nil {
		t.Errorf("indicator lists must serialize as arrays, got %#v", ind)
	}
	if report.RunID == "" {
		t.Error("run id must be set")
	}
}

func TestVisualizationPassesThrough(t *testing.T) {
	stub := &stubRepository{
		viz: domain.VisualizationData{
			Nodes: []domain.VisualizationNode{{ID: "USR-1", Label: "asha@example.com", Type: "user"}},
			Edges: []domain.VisualizationEdge{},
		},
	}
	svc := NewDetectionService(stub, testLogger(), nil)

	data, err := svc.Visualization(context.Background())
	if err != nil {
		t.Fatalf("Visualization returned error: %v", err)
	}
	if len(data.Nodes) != 1 || data.Nodes[0].ID != "USR-1" {
		t.Fatalf("unexpected visualization: %+v", data)
	}
}
