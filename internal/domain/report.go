package domain

import "time"

// Basis values for FraudIndicators.RapidFilerBasis. The windowed analysis is
// authoritative; the fallback fires only when no user has two claims with
// parseable submission dates inside the thirty-day window, and flags repeat
// filers by raw claim count instead.
const (
	RapidFilerBasisWindow   = "submission_window"
	RapidFilerBasisFallback = "claim_count_fallback"
)

// HighFraudUser aggregates a user's claims that carry a fraud score above the
// high-score threshold. The count, average and total cover only that subset,
// not the user's whole claim history.
type HighFraudUser struct {
	UserID        string  `json:"userId"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	ClaimCount    int     `json:"claim_count"`
	AvgFraudScore float64 `json:"avg_fraud_score"`
	TotalAmount   float64 `json:"total_amount"`
}

// RapidFiler is a user flagged by the rapid-filing analysis. ClaimCount and
// TotalAmount cover the claims that qualified the user, which on the windowed
// basis means only claims with parseable submission dates.
type RapidFiler struct {
	UserID      string  `json:"userId"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	ClaimCount  int     `json:"claim_count"`
	TotalAmount float64 `json:"total_amount"`
}

// FraudIndicators groups the per-user analyses that run alongside network
// detection. SuspiciousAmounts, TimePatterns and DocumentPatterns are part of
// the wire contract consumed by the dashboard but no analysis populates them
// yet; they always serialize as empty arrays.
type FraudIndicators struct {
	HighFraudScoreUsers []HighFraudUser  `json:"high_fraud_score_users"`
	RapidClaimFilers    []RapidFiler     `json:"rapid_claim_filers"`
	RapidFilerBasis     string           `json:"rapid_filer_basis"`
	SuspiciousAmounts   []map[string]any `json:"suspicious_amounts"`
	TimePatterns        []map[string]any `json:"time_patterns"`
	DocumentPatterns    []map[string]any `json:"document_patterns"`
}

// RiskRecord is the composite risk profile for one user, keyed by user ID in
// the report. DisplayName and Email fall back to "Unknown User" and
// "No email" when the node carries no value.
type RiskRecord struct {
	OverallRisk    float64 `json:"overall_risk"`
	ClaimCount     int     `json:"claim_count"`
	AvgFraudScore  float64 `json:"avg_fraud_score"`
	TotalAmount    float64 `json:"total_amount"`
	MaxClaimAmount float64 `json:"max_claim_amount"`
	DisplayName    string  `json:"displayName"`
	Email          string  `json:"email"`
}

// UserClaimStats is the raw per-user aggregate read from the graph before
// risk weighting is applied.
type UserClaimStats struct {
	UserID         string
	DisplayName    string
	Email          string
	ClaimCount     int
	AvgFraudScore  float64
	TotalAmount    float64
	MaxClaimAmount float64
}

// Warning marks a detection stage that failed without sinking the whole run.
// A report that carries warnings is still usable; each warning names the
// stage whose evidence is missing.
type Warning struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// DetectionReport is the full result of one load-and-detect cycle.
type DetectionReport struct {
	SuspiciousNetworks []Network             `json:"suspicious_networks"`
	FraudIndicators    FraudIndicators       `json:"fraud_indicators"`
	RiskScores         map[string]RiskRecord `json:"risk_scores"`
	Recommendations    []string              `json:"recommendations"`
	RunID              string                `json:"run_id"`
	GeneratedAt        time.Time             `json:"generated_at"`
	Warnings           []Warning             `json:"warnings,omitempty"`
}
