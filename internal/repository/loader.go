package repository

import (
	"context"
	"fmt"

	"github.com/SoganiJ/InsuraX/internal/domain"
)

const clearGraphCypher = `MATCH (n) DETACH DELETE n`

const createUserCypher = `
CREATE (u:User {
    userId: $userId,
    email: $email,
    phone: $phone,
    displayName: $displayName,
    insured_sex: $insured_sex,
    insured_age: $insured_age,
    insured_occupation: $insured_occupation,
    address: $address,
    createdAt: $createdAt
})
`

const createPolicyCypher = `
CREATE (p:Policy {
    policyId: $policyId,
    policyName: $policyName,
    insurance_type: $insurance_type,
    policy_term: $policy_term,
    policy_start_date: $policy_start_date,
    policy_end_date: $policy_end_date,
    policy_annual_premium: $policy_annual_premium,
    sum_insured: $sum_insured,
    policy_state: $policy_state,
    policy_city: $policy_city,
    holderName: $holderName,
    userId: $userId
})
`

const createClaimCypher = `
CREATE (c:Claim {
    claimId: $claimId,
    policyId: $policyId,
    claimType: $claimType,
    claimAmount: $claimAmount,
    status: $status,
    submittedDate: $submittedDate,
    incidentDate: $incidentDate,
    description: $description,
    insurance_type: $insurance_type,
    incident_time: $incident_time,
    accident_location: $accident_location,
    hospital_name: $hospital_name,
    auto_make: $auto_make,
    auto_model: $auto_model,
    auto_year: $auto_year,
    userId: $userId,
    fraudScore: $fraudScore,
    riskLevel: $riskLevel
})
`

const ownsPolicyCypher = `
MATCH (u:User {userId: $userId})
MATCH (p:Policy {policyId: $policyId})
CREATE (u)-[:OWNS]->(p)
`

const hasClaimCypher = `
MATCH (p:Policy {policyId: $policyId})
MATCH (c:Claim {claimId: $claimId})
CREATE (p)-[:HAS_CLAIM]->(c)
`

const filedClaimCypher = `
MATCH (u:User {userId: $userId})
MATCH (c:Claim {claimId: $claimId})
CREATE (u)-[:FILED]->(c)
`

// ReplaceAll wipes the graph and rebuilds it from the given records. Nodes
// are created with CREATE, so a duplicate ID trips the uniqueness constraint
// and aborts the load with that record named in the error. Relationship
// statements MATCH both endpoints; a dangling foreign key simply creates no
// edge and is not an error.
func (r *Repository) ReplaceAll(ctx context.Context, users []domain.User, policies []domain.Policy, claims []domain.Claim) error {
	if _, err := r.client.ExecuteWrite(ctx, clearGraphCypher, nil); err != nil {
		return fmt.Errorf("clear graph: %w", err)
	}

	for _, user := range users {
		if _, err := r.client.ExecuteWrite(ctx, createUserCypher, userParams(user)); err != nil {
			return fmt.Errorf("create user %q: %w", user.UserID, err)
		}
	}
	for _, policy := range policies {
		if _, err := r.client.ExecuteWrite(ctx, createPolicyCypher, policyParams(policy)); err != nil {
			return fmt.Errorf("create policy %q: %w", policy.PolicyID, err)
		}
	}
	for _, claim := range claims {
		if _, err := r.client.ExecuteWrite(ctx, createClaimCypher, claimParams(claim)); err != nil {
			return fmt.Errorf("create claim %q: %w", claim.ClaimID, err)
		}
	}

	for _, policy := range policies {
		params := map[string]any{"userId": policy.UserID, "policyId": policy.PolicyID}
		if _, err := r.client.ExecuteWrite(ctx, ownsPolicyCypher, params); err != nil {
			return fmt.Errorf("link user %q to policy %q: %w", policy.UserID, policy.PolicyID, err)
		}
	}
	for _, claim := range claims {
		params := map[string]any{"policyId": claim.PolicyID, "claimId": claim.ClaimID}
		if _, err := r.client.ExecuteWrite(ctx, hasClaimCypher, params); err != nil {
			return fmt.Errorf("link policy %q to claim %q: %w", claim.PolicyID, claim.ClaimID, err)
		}
		params = map[string]any{"userId": claim.UserID, "claimId": claim.ClaimID}
		if _, err := r.client.ExecuteWrite(ctx, filedClaimCypher, params); err != nil {
			return fmt.Errorf("link user %q to claim %q: %w", claim.UserID, claim.ClaimID, err)
		}
	}
	return nil
}

func userParams(user domain.User) map[string]any {
	return map[string]any{
		"userId":             user.UserID,
		"email":              user.Email,
		"phone":              user.Phone,
		"displayName":        user.DisplayName,
		"insured_sex":        user.InsuredSex,
		"insured_age":        user.InsuredAge,
		"insured_occupation": user.InsuredOccupation,
		"address":            user.Address,
		"createdAt":          formatTime(user.CreatedAt),
	}
}

func policyParams(policy domain.Policy) map[string]any {
	return map[string]any{
		"policyId":              policy.PolicyID,
		"policyName":            policy.PolicyName,
		"insurance_type":        policy.InsuranceType,
		"policy_term":           policy.Term,
		"policy_start_date":     policy.StartDate,
		"policy_end_date":       policy.EndDate,
		"policy_annual_premium": policy.AnnualPremium,
		"sum_insured":           policy.SumInsured,
		"policy_state":          policy.State,
		"policy_city":           policy.City,
		"holderName":            policy.HolderName,
		"userId":                policy.UserID,
	}
}

func claimParams(claim domain.Claim) map[string]any {
	return map[string]any{
		"claimId":           claim.ClaimID,
		"policyId":          claim.PolicyID,
		"claimType":         claim.ClaimType,
		"claimAmount":       claim.ClaimAmount,
		"status":            claim.Status,
		"submittedDate":     claim.SubmittedDate,
		"incidentDate":      claim.IncidentDate,
		"description":       claim.Description,
		"insurance_type":    claim.InsuranceType,
		"incident_time":     claim.IncidentTime,
		"accident_location": claim.AccidentLocation,
		"hospital_name":     claim.HospitalName,
		"auto_make":         claim.AutoMake,
		"auto_model":        claim.AutoModel,
		"auto_year":         claim.AutoYear,
		"userId":            claim.UserID,
		"fraudScore":        claim.FraudScore,
		"riskLevel":         claim.RiskLevel,
	}
}
