package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/SoganiJ/InsuraX/internal/domain"
	"github.com/SoganiJ/InsuraX/internal/graph"
)

func TestReplaceAllWipesThenCreates(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	users := []domain.User{{
		UserID:      "USR-1",
		Email:       "asha@example.com",
		Phone:       "+919812345678",
		DisplayName: "Asha Rao",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	policies := []domain.Policy{{
		PolicyID:      "POL-1",
		InsuranceType: "auto",
		AnnualPremium: 24000,
		SumInsured:    800000,
		UserID:        "USR-1",
	}}
	claims := []domain.Claim{{
		ClaimID:     "CLM-1",
		PolicyID:    "POL-1",
		ClaimType:   "collision",
		ClaimAmount: 120000,
		UserID:      "USR-1",
		FraudScore:  0.4,
	}}

	if err := repo.ReplaceAll(context.Background(), users, policies, claims); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}

	calls := mem.WriteCalls()
	wantQueries := []string{
		clearGraphCypher,
		createUserCypher,
		createPolicyCypher,
		createClaimCypher,
		ownsPolicyCypher,
		hasClaimCypher,
		filedClaimCypher,
	}
	if len(calls) != len(wantQueries) {
		t.Fatalf("expected %d write calls, got %d", len(wantQueries), len(calls))
	}
	for i, want := range wantQueries {
		if calls[i].Query != want {
			t.Errorf("call %d: unexpected query:\n%s", i, calls[i].Query)
		}
	}

	userCall := calls[1]
	if got := userCall.Params["userId"]; got != "USR-1" {
		t.Errorf("unexpected userId param: %v", got)
	}
	if got := userCall.Params["createdAt"]; got != "2026-03-01T12:00:00Z" {
		t.Errorf("unexpected createdAt param: %v", got)
	}

	claimCall := calls[3]
	if got := claimCall.Params["fraudScore"]; got != 0.4 {
		t.Errorf("unexpected fraudScore param: %v", got)
	}

	ownsCall := calls[4]
	if ownsCall.Params["userId"] != "USR-1" || ownsCall.Params["policyId"] != "POL-1" {
		t.Errorf("unexpected OWNS params: %v", ownsCall.Params)
	}

	filedCall := calls[6]
	if filedCall.Params["userId"] != "USR-1" || filedCall.Params["claimId"] != "CLM-1" {
		t.Errorf("unexpected FILED params: %v", filedCall.Params)
	}
}

func TestReplaceAllAbortsOnFailedCreate(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.WithWriteErrorAt(2, errors.New("constraint violation"))
	repo := New(mem)

	users := []domain.User{{UserID: "USR-1"}}
	policies := []domain.Policy{{PolicyID: "POL-9", UserID: "USR-1"}}

	err := repo.ReplaceAll(context.Background(), users, policies, nil)
	if err == nil {
		t.Fatal("expected error from failed policy create")
	}
	if !strings.Contains(err.Error(), `create policy "POL-9"`) {
		t.Fatalf("error does not name the failed record: %v", err)
	}
	if len(mem.WriteCalls()) != 2 {
		t.Fatalf("load should stop at the failed statement, got %d calls", len(mem.WriteCalls()))
	}
}

func TestEnsureSchemaRunsEveryStatement(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	warnings := repo.EnsureSchema(context.Background())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	calls := mem.WriteCalls()
	if len(calls) != len(schemaStatements) {
		t.Fatalf("expected %d schema statements, got %d", len(schemaStatements), len(calls))
	}
	for i, stmt := range schemaStatements {
		if calls[i].Query != stmt.cypher {
			t.Errorf("statement %d: got %q", i, calls[i].Query)
		}
	}
}

func TestEnsureSchemaCollectsWarnings(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.WithError(errors.New("not supported"))
	repo := New(mem)

	warnings := repo.EnsureSchema(context.Background())
	if len(warnings) != len(schemaStatements) {
		t.Fatalf("expected %d warnings, got %d", len(schemaStatements), len(warnings))
	}
	for _, w := range warnings {
		if w.Stage != "schema" {
			t.Errorf("unexpected warning stage: %q", w.Stage)
		}
	}
}

func TestPhoneNetworks(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"user1": "USR-1", "name1": "Asha Rao", "email1": "asha@example.com",
		"user2": "USR-2", "name2": nil, "email2": nil,
		"phone":         "+919812345678",
		"claims_count1": int64(2), "claims_count2": int64(1),
		"total_amount1": 300000.0, "total_amount2": 250000.0,
	}}})
	repo := New(mem)

	networks, err := repo.PhoneNetworks(context.Background())
	if err != nil {
		t.Fatalf("PhoneNetworks returned error: %v", err)
	}
	if len(mem.ReadCalls()) != 1 || mem.ReadCalls()[0].Query != phoneNetworksCypher {
		t.Fatalf("unexpected read calls: %+v", mem.ReadCalls())
	}
	if len(networks) != 1 {
		t.Fatalf("expected 1 network, got %d", len(networks))
	}

	net := networks[0]
	if net.Type != domain.NetworkTypePhone {
		t.Errorf("unexpected type: %q", net.Type)
	}
	if net.Users[0] != "USR-1" || net.Users[1] != "USR-2" {
		t.Errorf("unexpected users: %v", net.Users)
	}
	if net.UserNames[1] != "Unknown" {
		t.Errorf("missing display name should fall back to Unknown, got %q", net.UserNames[1])
	}
	if net.UserEmails[1] != "No email" {
		t.Errorf("missing email should fall back to No email, got %q", net.UserEmails[1])
	}
	if net.SharedAttribute != "+919812345678" {
		t.Errorf("unexpected shared attribute: %q", net.SharedAttribute)
	}
	// 3 combined claims and 550k combined amount add 0.2 each to the base.
	if math.Abs(net.RiskScore-0.7) > 1e-9 {
		t.Errorf("unexpected risk score: %v", net.RiskScore)
	}
	if net.Details["claims_count2"] != 1 {
		t.Errorf("unexpected details: %v", net.Details)
	}
}

func TestPolicyNetworksScoreIgnoresAmounts(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"user1": "USR-1", "user2": "USR-2",
		"name1": "Asha Rao", "name2": "Vikram Shah",
		"email1": "asha@example.com", "email2": "vikram@example.com",
		"policy1": "POL-1", "policy2": "POL-2",
		"insurance_type": "auto",
		"premium":        24000.0,
		"sum_insured":    800000.0,
		"claims_count1":  int64(3), "claims_count2": int64(4),
	}}})
	repo := New(mem)

	networks, err := repo.PolicyNetworks(context.Background())
	if err != nil {
		t.Fatalf("PolicyNetworks returned error: %v", err)
	}
	if len(networks) != 1 {
		t.Fatalf("expected 1 network, got %d", len(networks))
	}

	net := networks[0]
	if net.SharedAttribute != "Same auto policy details" {
		t.Errorf("unexpected shared attribute: %q", net.SharedAttribute)
	}
	// 7 combined claims add 0.3; the query carries no amount totals, so the
	// amount component stays zero.
	if math.Abs(net.RiskScore-0.6) > 1e-9 {
		t.Errorf("unexpected risk score: %v", net.RiskScore)
	}
}

func TestClaimNetworksUseFixedRisk(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"user1": "USR-1", "user2": "USR-2",
		"name1": nil, "name2": nil,
		"email1": nil, "email2": nil,
		"claim1": "CLM-1", "claim2": "CLM-2",
		"claim_type":     "theft",
		"claim_amount":   90000.0,
		"incident_date":  "2026-02-14",
		"insurance_type": "auto",
	}}})
	repo := New(mem)

	networks, err := repo.ClaimNetworks(context.Background())
	if err != nil {
		t.Fatalf("ClaimNetworks returned error: %v", err)
	}
	if len(networks) != 1 {
		t.Fatalf("expected 1 network, got %d", len(networks))
	}

	net := networks[0]
	if net.RiskScore != 0.9 {
		t.Errorf("identical claims must score 0.9, got %v", net.RiskScore)
	}
	if net.SharedAttribute != "Identical theft claim" {
		t.Errorf("unexpected shared attribute: %q", net.SharedAttribute)
	}
	if net.Details["incident_date"] != "2026-02-14" {
		t.Errorf("unexpected details: %v", net.Details)
	}
}

func TestHighFraudScoreUsers(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"userId": "USR-7", "email": "ravi@example.com", "phone": "+919800000007",
		"claim_count": int64(3), "avg_fraud_score": 0.82, "total_amount": 450000.0,
	}}})
	repo := New(mem)

	users, err := repo.HighFraudScoreUsers(context.Background())
	if err != nil {
		t.Fatalf("HighFraudScoreUsers returned error: %v", err)
	}
	if mem.ReadCalls()[0].Query != highFraudUsersCypher {
		t.Fatalf("unexpected query: %s", mem.ReadCalls()[0].Query)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].ClaimCount != 3 || users[0].AvgFraudScore != 0.82 {
		t.Errorf("unexpected aggregates: %+v", users[0])
	}
}

func TestRapidClaimFilersFiltersAndSorts(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			// Two parseable dates, nine days apart, mixed formats.
			"userId": "USR-1", "email": "asha@example.com", "phone": "+911",
			"dates":   []any{"2026-01-05", "2026-01-14T10:30:00Z"},
			"amounts": []any{100000.0, 150000.0},
		},
		{
			// Three parseable dates inside the window; must sort first.
			"userId": "USR-2", "email": "vikram@example.com", "phone": "+912",
			"dates":   []any{"2026-02-01", "2026-02-10", "2026-02-20"},
			"amounts": []any{50000.0, 60000.0, 70000.0},
		},
		{
			// Span exceeds thirty days.
			"userId": "USR-3", "email": "meera@example.com", "phone": "+913",
			"dates":   []any{"2026-01-01", "2026-03-01"},
			"amounts": []any{10000.0, 20000.0},
		},
		{
			// Unparseable dates leave fewer than two claims.
			"userId": "USR-4", "email": "dev@example.com", "phone": "+914",
			"dates":   []any{"13/01/2026", "2026-01-20"},
			"amounts": []any{30000.0, 40000.0},
		},
	}})
	repo := New(mem)

	filers, err := repo.RapidClaimFilers(context.Background())
	if err != nil {
		t.Fatalf("RapidClaimFilers returned error: %v", err)
	}
	if len(filers) != 2 {
		t.Fatalf("expected 2 filers, got %d: %+v", len(filers), filers)
	}
	if filers[0].UserID != "USR-2" || filers[0].ClaimCount != 3 {
		t.Errorf("expected USR-2 with 3 claims first, got %+v", filers[0])
	}
	if filers[1].UserID != "USR-1" || filers[1].ClaimCount != 2 {
		t.Errorf("expected USR-1 with 2 claims second, got %+v", filers[1])
	}
	if filers[1].TotalAmount != 250000 {
		t.Errorf("total should cover parseable claims only, got %v", filers[1].TotalAmount)
	}
}

func TestRapidClaimFilersWindowBoundary(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"userId": "USR-1", "email": "asha@example.com", "phone": "+911",
		// Exactly thirty days apart stays inside the window.
		"dates":   []any{"2026-01-01", "2026-01-31"},
		"amounts": []any{1000.0, 2000.0},
	}}})
	repo := New(mem)

	filers, err := repo.RapidClaimFilers(context.Background())
	if err != nil {
		t.Fatalf("RapidClaimFilers returned error: %v", err)
	}
	if len(filers) != 1 {
		t.Fatalf("thirty-day span should qualify, got %+v", filers)
	}
}

func TestRepeatClaimFilers(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"userId": "USR-5", "email": "nina@example.com", "phone": "+915",
		"claim_count": int64(4), "total_amount": 320000.0,
	}}})
	repo := New(mem)

	filers, err := repo.RepeatClaimFilers(context.Background())
	if err != nil {
		t.Fatalf("RepeatClaimFilers returned error: %v", err)
	}
	if mem.ReadCalls()[0].Query != repeatFilersCypher {
		t.Fatalf("unexpected query: %s", mem.ReadCalls()[0].Query)
	}
	if len(filers) != 1 || filers[0].ClaimCount != 4 {
		t.Fatalf("unexpected filers: %+v", filers)
	}
}

func TestUserClaimStats(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"userId": "USR-1", "displayName": "Asha Rao", "email": "asha@example.com",
		"claim_count": int64(6), "avg_fraud_score": 0.5,
		"total_amount": 1200000.0, "max_claim_amount": 400000.0,
	}}})
	repo := New(mem)

	stats, err := repo.UserClaimStats(context.Background())
	if err != nil {
		t.Fatalf("UserClaimStats returned error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat row, got %d", len(stats))
	}
	got := stats[0]
	if got.ClaimCount != 6 || got.TotalAmount != 1200000 || got.MaxClaimAmount != 400000 {
		t.Errorf("unexpected aggregates: %+v", got)
	}
}

func TestVisualizationData(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"userId": "USR-1", "email": "asha@example.com",
		"claimId": "CLM-1", "claimAmount": 90000.0, "fraudScore": 0.8,
	}}})
	repo := New(mem)

	data, err := repo.VisualizationData(context.Background())
	if err != nil {
		t.Fatalf("VisualizationData returned error: %v", err)
	}
	if len(data.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(data.Nodes))
	}
	node := data.Nodes[0]
	if node.ID != "USR-1" || node.Label != "asha@example.com" || node.Type != "user" {
		t.Errorf("unexpected node: %+v", node)
	}
	if node.ClaimAmount != 90000 || node.FraudScore != 0.8 {
		t.Errorf("unexpected node amounts: %+v", node)
	}
	if data.Edges == nil || len(data.Edges) != 0 {
		t.Errorf("edges must be present and empty, got %v", data.Edges)
	}
}

func TestPing(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if mem.ReadCalls()[0].Query != pingCypher {
		t.Fatalf("unexpected query: %s", mem.ReadCalls()[0].Query)
	}

	failing := graph.NewMemoryClient().WithError(errors.New("down"))
	if err := New(failing).Ping(context.Background()); err == nil {
		t.Fatal("expected error from failing store")
	}
}
