package repository

import (
	"context"
	"fmt"

	"github.com/SoganiJ/InsuraX/internal/domain"
	"github.com/SoganiJ/InsuraX/internal/graph"
	"github.com/SoganiJ/InsuraX/internal/scoring"
)

// Both users must own a policy with at least one claim; users who merely
// share a phone but never claimed are not a network.
const phoneNetworksCypher = `
MATCH (u1:User)-[:OWNS]->(p1:Policy)-[:HAS_CLAIM]->(c1:Claim)
MATCH (u2:User)-[:OWNS]->(p2:Policy)-[:HAS_CLAIM]->(c2:Claim)
WHERE u1.phone = u2.phone
  AND u1.userId <> u2.userId
  AND u1.phone <> ''
WITH u1, u2, collect(DISTINCT c1) AS claims1, collect(DISTINCT c2) AS claims2
WHERE size(claims1) > 0 AND size(claims2) > 0
RETURN u1.userId AS user1, u1.displayName AS name1, u1.email AS email1,
       u2.userId AS user2, u2.displayName AS name2, u2.email AS email2,
       u1.phone AS phone,
       size(claims1) AS claims_count1, size(claims2) AS claims_count2,
       reduce(total1 = 0.0, claim IN claims1 | total1 + claim.claimAmount) AS total_amount1,
       reduce(total2 = 0.0, claim IN claims2 | total2 + claim.claimAmount) AS total_amount2
`

const policyNetworksCypher = `
MATCH (u1:User)-[:OWNS]->(p1:Policy)
MATCH (u2:User)-[:OWNS]->(p2:Policy)
WHERE u1.userId <> u2.userId
  AND p1.insurance_type = p2.insurance_type
  AND p1.policy_annual_premium = p2.policy_annual_premium
  AND p1.sum_insured = p2.sum_insured
  AND p1.policy_annual_premium > 0
WITH u1, u2, p1, p2
MATCH (p1)-[:HAS_CLAIM]->(c1:Claim)
MATCH (p2)-[:HAS_CLAIM]->(c2:Claim)
WITH u1, u2, p1, p2, collect(DISTINCT c1) AS claims1, collect(DISTINCT c2) AS claims2
WHERE size(claims1) > 0 AND size(claims2) > 0
RETURN u1.userId AS user1, u2.userId AS user2,
       u1.displayName AS name1, u2.displayName AS name2,
       u1.email AS email1, u2.email AS email2,
       p1.policyId AS policy1, p2.policyId AS policy2,
       p1.insurance_type AS insurance_type,
       p1.policy_annual_premium AS premium,
       p1.sum_insured AS sum_insured,
       size(claims1) AS claims_count1, size(claims2) AS claims_count2
`

const claimNetworksCypher = `
MATCH (u1:User)-[:FILED]->(c1:Claim)
MATCH (u2:User)-[:FILED]->(c2:Claim)
WHERE u1.userId <> u2.userId
  AND c1.claimType = c2.claimType
  AND c1.claimAmount = c2.claimAmount
  AND c1.incidentDate = c2.incidentDate
  AND c1.claimAmount > 0
WITH u1, u2, c1, c2
MATCH (c1)<-[:HAS_CLAIM]-(p1:Policy)
MATCH (c2)<-[:HAS_CLAIM]-(p2:Policy)
WHERE p1.insurance_type = p2.insurance_type
RETURN u1.userId AS user1, u2.userId AS user2,
       u1.displayName AS name1, u2.displayName AS name2,
       u1.email AS email1, u2.email AS email2,
       c1.claimId AS claim1, c2.claimId AS claim2,
       c1.claimType AS claim_type,
       c1.claimAmount AS claim_amount,
       c1.incidentDate AS incident_date,
       p1.insurance_type AS insurance_type
`

// PhoneNetworks finds pairs of claiming users registered under the same
// phone number.
func (r *Repository) PhoneNetworks(ctx context.Context) ([]domain.Network, error) {
	res, err := r.client.ExecuteRead(ctx, phoneNetworksCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("phone networks query: %w", err)
	}

	networks := make([]domain.Network, 0, len(res.Records))
	for _, record := range res.Records {
		networks = append(networks, domain.Network{
			Type:            domain.NetworkTypePhone,
			Users:           pairStrings(record, "user1", "user2"),
			UserNames:       pairNames(record),
			UserEmails:      pairEmails(record),
			SharedAttribute: toString(record["phone"]),
			RiskScore:       combinedClaimRisk(record),
			Details: map[string]any{
				"phone":         toString(record["phone"]),
				"claims_count1": toInt(record["claims_count1"]),
				"claims_count2": toInt(record["claims_count2"]),
				"total_amount1": toFloat64(record["total_amount1"]),
				"total_amount2": toFloat64(record["total_amount2"]),
			},
		})
	}
	return networks, nil
}

// PolicyNetworks finds pairs of users holding policies with identical terms:
// same insurance type, same non-zero annual premium, same sum insured.
func (r *Repository) PolicyNetworks(ctx context.Context) ([]domain.Network, error) {
	res, err := r.client.ExecuteRead(ctx, policyNetworksCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("policy networks query: %w", err)
	}

	networks := make([]domain.Network, 0, len(res.Records))
	for _, record := range res.Records {
		networks = append(networks, domain.Network{
			Type:            domain.NetworkTypePolicy,
			Users:           pairStrings(record, "user1", "user2"),
			UserNames:       pairNames(record),
			UserEmails:      pairEmails(record),
			SharedAttribute: fmt.Sprintf("Same %s policy details", toString(record["insurance_type"])),
			RiskScore:       combinedClaimRisk(record),
			Details: map[string]any{
				"policy1":        toString(record["policy1"]),
				"policy2":        toString(record["policy2"]),
				"insurance_type": toString(record["insurance_type"]),
				"premium":        toFloat64(record["premium"]),
				"sum_insured":    toFloat64(record["sum_insured"]),
				"claims_count1":  toInt(record["claims_count1"]),
				"claims_count2":  toInt(record["claims_count2"]),
			},
		})
	}
	return networks, nil
}

// ClaimNetworks finds pairs of users who filed byte-identical claims (same
// type, amount and incident date) under policies of the same insurance type.
// These carry a fixed very high risk score rather than the volume-based one.
func (r *Repository) ClaimNetworks(ctx context.Context) ([]domain.Network, error) {
	res, err := r.client.ExecuteRead(ctx, claimNetworksCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("claim networks query: %w", err)
	}

	networks := make([]domain.Network, 0, len(res.Records))
	for _, record := range res.Records {
		networks = append(networks, domain.Network{
			Type:            domain.NetworkTypeClaim,
			Users:           pairStrings(record, "user1", "user2"),
			UserNames:       pairNames(record),
			UserEmails:      pairEmails(record),
			SharedAttribute: fmt.Sprintf("Identical %s claim", toString(record["claim_type"])),
			RiskScore:       scoring.IdenticalClaimRisk,
			Details: map[string]any{
				"claim1":         toString(record["claim1"]),
				"claim2":         toString(record["claim2"]),
				"claim_type":     toString(record["claim_type"]),
				"claim_amount":   toFloat64(record["claim_amount"]),
				"incident_date":  toString(record["incident_date"]),
				"insurance_type": toString(record["insurance_type"]),
			},
		})
	}
	return networks, nil
}

// combinedClaimRisk feeds the pair's combined claim volume into the network
// formula. The policy detector returns no amount totals, so its amount
// component is always zero.
func combinedClaimRisk(record graph.Record) float64 {
	claims := toInt(record["claims_count1"]) + toInt(record["claims_count2"])
	amount := toFloat64(record["total_amount1"]) + toFloat64(record["total_amount2"])
	return scoring.NetworkRisk(claims, amount)
}

func pairStrings(record graph.Record, first, second string) []string {
	return []string{toString(record[first]), toString(record[second])}
}

func pairNames(record graph.Record) []string {
	return []string{nameOrUnknown(record["name1"]), nameOrUnknown(record["name2"])}
}

func pairEmails(record graph.Record) []string {
	return []string{emailOrFallback(record["email1"]), emailOrFallback(record["email2"])}
}
