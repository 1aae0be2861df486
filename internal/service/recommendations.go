package service

import (
	"fmt"

	"github.com/SoganiJ/InsuraX/internal/domain"
)

// highRiskThreshold marks users whose composite score warrants manual review.
const highRiskThreshold = 0.7

// buildRecommendations turns the aggregate results into the advisory lines
// shown on the dashboard. There are exactly three possible lines: networks,
// high-risk users, rapid filers. The rapid-filer line is reworded when the
// list came from the claim-count fallback, since "rapidly" would overstate
// what that signal measured.
func buildRecommendations(report domain.DetectionReport) []string {
	recommendations := make([]string, 0, 3)

	if n := len(report.SuspiciousNetworks); n > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("%d suspicious networks detected - investigate immediately", n))
	}

	highRisk := 0
	for _, record := range report.RiskScores {
		if record.OverallRisk > highRiskThreshold {
			highRisk++
		}
	}
	if highRisk > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("%d high-risk users identified - manual review required", highRisk))
	}

	if n := len(report.FraudIndicators.RapidClaimFilers); n > 0 {
		if report.FraudIndicators.RapidFilerBasis == domain.RapidFilerBasisFallback {
			recommendations = append(recommendations,
				fmt.Sprintf("%d users with repeat claims flagged without usable submission dates - review filing history", n))
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("%d users filing claims rapidly - investigate patterns", n))
		}
	}

	return recommendations
}
