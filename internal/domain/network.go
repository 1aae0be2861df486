package domain

// Network types, in the order the detectors run. The order matters: when two
// detectors flag the same pair of users, the earlier detector's network wins
// and the later one is dropped.
const (
	NetworkTypePhone  = "phone_network"
	NetworkTypePolicy = "policy_network"
	NetworkTypeClaim  = "claim_network"
)

// Network is one suspicious pair of users surfaced by a pattern detector.
// Users always holds exactly two user IDs; UserNames and UserEmails are
// positionally aligned with it. Details carries detector-specific evidence
// and its keys differ per network type.
type Network struct {
	Type            string         `json:"type"`
	Users           []string       `json:"users"`
	UserNames       []string       `json:"user_names"`
	UserEmails      []string       `json:"user_emails"`
	SharedAttribute string         `json:"shared_attribute"`
	RiskScore       float64        `json:"risk_score"`
	Details         map[string]any `json:"details"`
}
