package domain

// VisualizationNode is a graph node prepared for the dashboard renderer. Only
// users with at least one claim above the visualization fraud-score cutoff
// appear; the label is the user's email.
type VisualizationNode struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	FraudScore  float64 `json:"fraudScore"`
	ClaimAmount float64 `json:"claimAmount"`
}

// VisualizationEdge connects two visualization nodes. The current extract is
// node-only, so Edges is always present but empty.
type VisualizationEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// VisualizationData is the payload served to the fraud dashboard.
type VisualizationData struct {
	Nodes []VisualizationNode `json:"nodes"`
	Edges []VisualizationEdge `json:"edges"`
}
