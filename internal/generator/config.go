package generator

// Config drives the synthetic insurance dataset generator. Pair counts
// control how many fraud rings get planted on top of the random base data.
type Config struct {
	NumUsers             int
	NumPolicies          int
	NumClaims            int
	SharedPhonePairs     int
	DuplicatePolicyPairs int
	DuplicateClaimPairs  int
	RapidFilerUsers      int
	Seed                 int64
}

// DefaultConfig returns a dataset size that exercises every detector while
// staying small enough to load into the graph in seconds.
func DefaultConfig() Config {
	return Config{
		NumUsers:             500,
		NumPolicies:          650,
		NumClaims:            900,
		SharedPhonePairs:     8,
		DuplicatePolicyPairs: 6,
		DuplicateClaimPairs:  5,
		RapidFilerUsers:      6,
		Seed:                 42,
	}
}

// ringSlots is the number of leading users reserved for planted rings. Base
// policies and claims only attach to users past this boundary, so every ring
// member's record set stays fully controlled by the planting step.
func (c Config) ringSlots() int {
	return 2*(c.SharedPhonePairs+c.DuplicatePolicyPairs+c.DuplicateClaimPairs) + c.RapidFilerUsers
}
