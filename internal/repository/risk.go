package repository

import (
	"context"
	"fmt"

	"github.com/SoganiJ/InsuraX/internal/domain"
)

const userClaimStatsCypher = `
MATCH (u:User)-[:FILED]->(c:Claim)
WITH u, collect(c) AS claims
WHERE size(claims) > 0
RETURN u.userId AS userId, u.displayName AS displayName, u.email AS email,
       size(claims) AS claim_count,
       reduce(total = 0.0, claim IN claims | total + claim.fraudScore) / size(claims) AS avg_fraud_score,
       reduce(total = 0.0, claim IN claims | total + claim.claimAmount) AS total_amount,
       reduce(max_val = 0.0, claim IN claims | CASE WHEN claim.claimAmount > max_val THEN claim.claimAmount ELSE max_val END) AS max_claim_amount
`

// UserClaimStats aggregates every claiming user's filing history in one pass.
// Users without claims are absent; the risk weighting applied on top of these
// numbers lives in the service layer.
func (r *Repository) UserClaimStats(ctx context.Context) ([]domain.UserClaimStats, error) {
	res, err := r.client.ExecuteRead(ctx, userClaimStatsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("user claim stats query: %w", err)
	}

	stats := make([]domain.UserClaimStats, 0, len(res.Records))
	for _, record := range res.Records {
		stats = append(stats, domain.UserClaimStats{
			UserID:         toString(record["userId"]),
			DisplayName:    toString(record["displayName"]),
			Email:          toString(record["email"]),
			ClaimCount:     toInt(record["claim_count"]),
			AvgFraudScore:  toFloat64(record["avg_fraud_score"]),
			TotalAmount:    toFloat64(record["total_amount"]),
			MaxClaimAmount: toFloat64(record["max_claim_amount"]),
		})
	}
	return stats, nil
}
