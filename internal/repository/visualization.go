package repository

import (
	"context"
	"fmt"

	"github.com/SoganiJ/InsuraX/internal/domain"
)

const visualizationCypher = `
MATCH (u:User)-[:FILED]->(c:Claim)
WHERE c.fraudScore > 0.5
RETURN u.userId AS userId, u.email AS email,
       c.claimId AS claimId, c.claimAmount AS claimAmount, c.fraudScore AS fraudScore
`

// VisualizationData extracts the nodes the fraud dashboard renders: one node
// per user-claim pair above the fraud-score cutoff. The extract carries no
// edges; the slice is kept non-nil so the payload always serializes as an
// empty array.
func (r *Repository) VisualizationData(ctx context.Context) (domain.VisualizationData, error) {
	res, err := r.client.ExecuteRead(ctx, visualizationCypher, nil)
	if err != nil {
		return domain.VisualizationData{}, fmt.Errorf("visualization query: %w", err)
	}

	data := domain.VisualizationData{
		Nodes: make([]domain.VisualizationNode, 0, len(res.Records)),
		Edges: []domain.VisualizationEdge{},
	}
	for _, record := range res.Records {
		data.Nodes = append(data.Nodes, domain.VisualizationNode{
			ID:          toString(record["userId"]),
			Label:       toString(record["email"]),
			Type:        "user",
			FraudScore:  toFloat64(record["fraudScore"]),
			ClaimAmount: toFloat64(record["claimAmount"]),
		})
	}
	return data, nil
}
