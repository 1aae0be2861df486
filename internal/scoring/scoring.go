// Package scoring holds the risk formulas shared by the pattern detectors and
// the per-user risk profile. The functions are pure so the weights can be
// exercised directly in tests.
package scoring

import "math"

// IdenticalClaimRisk is the fixed score assigned to networks built from exact
// duplicate claims. Duplicate claims are treated as near-certain fraud, so
// the additive formula is skipped for them.
const IdenticalClaimRisk = 0.9

// NetworkRisk scores a two-user network from the combined claim volume of
// both members. The base score of 0.3 reflects that the shared attribute
// alone is suspicious; claim count and claim total each add at most 0.3.
func NetworkRisk(combinedClaims int, combinedAmount float64) float64 {
	score := 0.3
	switch {
	case combinedClaims > 5:
		score += 0.3
	case combinedClaims > 2:
		score += 0.2
	}
	switch {
	case combinedAmount > 1000000:
		score += 0.3
	case combinedAmount > 500000:
		score += 0.2
	}
	return math.Min(score, 1.0)
}

// OverallUserRisk combines a user's claim count, average model fraud score
// and total claimed amount into a single risk value. Claim count saturates at
// ten claims and total amount at one million; the model score carries the
// largest weight.
func OverallUserRisk(claimCount int, avgFraudScore, totalAmount float64) float64 {
	countScore := math.Min(float64(claimCount)/10.0, 1.0)
	amountScore := math.Min(totalAmount/1000000.0, 1.0)
	return 0.3*countScore + 0.5*avgFraudScore + 0.2*amountScore
}

// RiskBand maps a score in [0, 1] to the coarse label used on claim records
// and review queues.
func RiskBand(score float64) string {
	switch {
	case score > 0.7:
		return "high"
	case score > 0.3:
		return "medium"
	default:
		return "low"
	}
}
