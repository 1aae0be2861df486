package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SoganiJ/InsuraX/internal/domain"
)

// rapidFilingWindow is the maximum span between a user's earliest and latest
// claim submission for the user to count as a rapid filer.
const rapidFilingWindow = 30 * 24 * time.Hour

const highFraudUsersCypher = `
MATCH (u:User)-[:FILED]->(c:Claim)
WHERE c.fraudScore > 0.7
WITH u, collect(c) AS claims
WHERE size(claims) > 0
RETURN u.userId AS userId, u.email AS email, u.phone AS phone,
       size(claims) AS claim_count,
       reduce(total = 0.0, claim IN claims | total + claim.fraudScore) / size(claims) AS avg_fraud_score,
       reduce(total = 0.0, claim IN claims | total + claim.claimAmount) AS total_amount
ORDER BY avg_fraud_score DESC
LIMIT 20
`

const rapidFilerDatesCypher = `
MATCH (u:User)-[:FILED]->(c:Claim)
WHERE c.submittedDate IS NOT NULL AND c.submittedDate <> ''
WITH u, collect(c.submittedDate) AS dates, collect(c.claimAmount) AS amounts
WHERE size(dates) >= 2
RETURN u.userId AS userId, u.email AS email, u.phone AS phone,
       dates AS dates, amounts AS amounts
`

const repeatFilersCypher = `
MATCH (u:User)-[:FILED]->(c:Claim)
WITH u, collect(c) AS claims
WHERE size(claims) >= 2
RETURN u.userId AS userId, u.email AS email, u.phone AS phone,
       size(claims) AS claim_count,
       reduce(total = 0.0, claim IN claims | total + claim.claimAmount) AS total_amount
ORDER BY claim_count DESC
LIMIT 10
`

// HighFraudScoreUsers returns the top users ranked by the average model score
// of their flagged claims. Only claims scoring above the 0.7 threshold feed
// the aggregates, so claim_count here is the flagged-claim count, not the
// user's total.
func (r *Repository) HighFraudScoreUsers(ctx context.Context) ([]domain.HighFraudUser, error) {
	res, err := r.client.ExecuteRead(ctx, highFraudUsersCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("high fraud score users query: %w", err)
	}

	users := make([]domain.HighFraudUser, 0, len(res.Records))
	for _, record := range res.Records {
		users = append(users, domain.HighFraudUser{
			UserID:        toString(record["userId"]),
			Email:         toString(record["email"]),
			Phone:         toString(record["phone"]),
			ClaimCount:    toInt(record["claim_count"]),
			AvgFraudScore: toFloat64(record["avg_fraud_score"]),
			TotalAmount:   toFloat64(record["total_amount"]),
		})
	}
	return users, nil
}

// RapidClaimFilers flags users whose claims with parseable submission dates
// number at least two and all fall inside the thirty-day window. Dates and
// amounts come back as parallel collections per user; parsing happens here
// rather than in Cypher so a malformed date skips one claim instead of
// failing the query. Counts and totals cover only the parseable claims.
func (r *Repository) RapidClaimFilers(ctx context.Context) ([]domain.RapidFiler, error) {
	res, err := r.client.ExecuteRead(ctx, rapidFilerDatesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("rapid claim filers query: %w", err)
	}

	filers := make([]domain.RapidFiler, 0, len(res.Records))
	for _, record := range res.Records {
		dates := toStringSlice(record["dates"])
		amounts := toFloat64Slice(record["amounts"])

		var earliest, latest time.Time
		count := 0
		total := 0.0
		for i, raw := range dates {
			parsed, ok := parseSubmissionDate(raw)
			if !ok {
				continue
			}
			if count == 0 || parsed.Before(earliest) {
				earliest = parsed
			}
			if count == 0 || parsed.After(latest) {
				latest = parsed
			}
			if i < len(amounts) {
				total += amounts[i]
			}
			count++
		}
		if count < 2 || latest.Sub(earliest) > rapidFilingWindow {
			continue
		}

		filers = append(filers, domain.RapidFiler{
			UserID:      toString(record["userId"]),
			Email:       toString(record["email"]),
			Phone:       toString(record["phone"]),
			ClaimCount:  count,
			TotalAmount: total,
		})
	}

	sort.SliceStable(filers, func(i, j int) bool {
		return filers[i].ClaimCount > filers[j].ClaimCount
	})
	return filers, nil
}

// RepeatClaimFilers is the fallback signal used when no submission date in
// the dataset is parseable: it flags the heaviest repeat filers by raw claim
// count, capped at ten.
func (r *Repository) RepeatClaimFilers(ctx context.Context) ([]domain.RapidFiler, error) {
	res, err := r.client.ExecuteRead(ctx, repeatFilersCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("repeat claim filers query: %w", err)
	}

	filers := make([]domain.RapidFiler, 0, len(res.Records))
	for _, record := range res.Records {
		filers = append(filers, domain.RapidFiler{
			UserID:      toString(record["userId"]),
			Email:       toString(record["email"]),
			Phone:       toString(record["phone"]),
			ClaimCount:  toInt(record["claim_count"]),
			TotalAmount: toFloat64(record["total_amount"]),
		})
	}
	return filers, nil
}

// parseSubmissionDate accepts the two formats upstream systems send: a plain
// date and an ISO 8601 timestamp with or without offset. Anything else is
// skipped by the caller.
func parseSubmissionDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.Contains(raw, "-") {
		return time.Time{}, false
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
