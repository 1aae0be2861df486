package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/SoganiJ/InsuraX/internal/domain"
)

// Input records arrive as loose maps straight from JSON. Conversion applies
// defaulting only: missing or mistyped strings become "", numbers become 0.
// Phones and emails pass through unnormalized; the detectors match those
// fields by exact equality.

func convertUsers(records []map[string]any, createdAt time.Time) []domain.User {
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, domain.User{
			UserID:            recordUserID(rec),
			Email:             recordString(rec, "email"),
			Phone:             recordString(rec, "phone"),
			DisplayName:       recordString(rec, "displayName"),
			InsuredSex:        recordString(rec, "insured_sex"),
			InsuredAge:        recordInt(rec, "insured_age"),
			InsuredOccupation: recordString(rec, "insured_occupation"),
			Address:           recordString(rec, "address"),
			CreatedAt:         createdAt,
		})
	}
	return users
}

func convertPolicies(records []map[string]any) []domain.Policy {
	policies := make([]domain.Policy, 0, len(records))
	for _, rec := range records {
		policies = append(policies, domain.Policy{
			PolicyID:      recordString(rec, "policyId"),
			PolicyName:    recordString(rec, "policyName"),
			InsuranceType: recordString(rec, "insurance_type"),
			Term:          recordString(rec, "policy_term"),
			StartDate:     recordString(rec, "policy_start_date"),
			EndDate:       recordString(rec, "policy_end_date"),
			AnnualPremium: recordFloat(rec, "policy_annual_premium"),
			SumInsured:    recordFloat(rec, "sum_insured"),
			State:         recordString(rec, "policy_state"),
			City:          recordString(rec, "policy_city"),
			HolderName:    recordString(rec, "holderName"),
			UserID:        recordString(rec, "userId"),
		})
	}
	return policies
}

func convertClaims(records []map[string]any) []domain.Claim {
	claims := make([]domain.Claim, 0, len(records))
	for _, rec := range records {
		claims = append(claims, domain.Claim{
			ClaimID:          recordString(rec, "claimId"),
			PolicyID:         recordString(rec, "policyId"),
			ClaimType:        recordString(rec, "claimType"),
			ClaimAmount:      recordFloat(rec, "claimAmount"),
			Status:           recordString(rec, "status"),
			SubmittedDate:    recordString(rec, "submittedDate"),
			IncidentDate:     recordString(rec, "incidentDate"),
			Description:      recordString(rec, "description"),
			InsuranceType:    recordString(rec, "insurance_type"),
			IncidentTime:     recordString(rec, "incident_time"),
			AccidentLocation: recordString(rec, "accident_location"),
			HospitalName:     recordString(rec, "hospital_name"),
			AutoMake:         recordString(rec, "auto_make"),
			AutoModel:        recordString(rec, "auto_model"),
			AutoYear:         recordInt(rec, "auto_year"),
			UserID:           recordString(rec, "userId"),
			FraudScore:       clampScore(recordFloat(rec, "fraudScore")),
			RiskLevel:        recordString(rec, "riskLevel"),
		})
	}
	return claims
}

// recordUserID accepts either key upstream systems use for the user ID.
func recordUserID(rec map[string]any) string {
	if id := recordString(rec, "uid"); id != "" {
		return id
	}
	return recordString(rec, "id")
}

func recordString(rec map[string]any, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func recordFloat(rec map[string]any, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func recordInt(rec map[string]any, key string) int {
	return int(recordFloat(rec, key))
}

// clampScore keeps model scores inside [0, 1] so one out-of-range upstream
// value cannot distort averages across a whole detection run.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
