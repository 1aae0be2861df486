package repository

import (
	"context"
	"fmt"

	"github.com/SoganiJ/InsuraX/internal/domain"
)

// schemaStatements are idempotent and safe to replay on every startup.
type schemaStatement struct {
	name   string
	cypher string
}

var schemaStatements = []schemaStatement{
	{"user_id_unique", `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.userId IS UNIQUE`},
	{"policy_id_unique", `CREATE CONSTRAINT policy_id_unique IF NOT EXISTS FOR (p:Policy) REQUIRE p.policyId IS UNIQUE`},
	{"claim_id_unique", `CREATE CONSTRAINT claim_id_unique IF NOT EXISTS FOR (c:Claim) REQUIRE c.claimId IS UNIQUE`},
	{"user_email_idx", `CREATE INDEX user_email_idx IF NOT EXISTS FOR (u:User) ON (u.email)`},
	{"user_phone_idx", `CREATE INDEX user_phone_idx IF NOT EXISTS FOR (u:User) ON (u.phone)`},
	{"claim_amount_idx", `CREATE INDEX claim_amount_idx IF NOT EXISTS FOR (c:Claim) ON (c.claimAmount)`},
	{"claim_date_idx", `CREATE INDEX claim_date_idx IF NOT EXISTS FOR (c:Claim) ON (c.incidentDate)`},
}

// EnsureSchema creates the uniqueness constraints and lookup indexes the
// detectors rely on. A statement that fails (older server edition, racing
// deployment) is reported as a warning and never blocks startup: the queries
// still run without indexes, just slower.
func (r *Repository) EnsureSchema(ctx context.Context) []domain.Warning {
	var warnings []domain.Warning
	for _, stmt := range schemaStatements {
		if _, err := r.client.ExecuteWrite(ctx, stmt.cypher, nil); err != nil {
			warnings = append(warnings, domain.Warning{
				Stage:   "schema",
				Message: fmt.Sprintf("%s: %v", stmt.name, err),
			})
		}
	}
	return warnings
}
