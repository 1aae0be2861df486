package domain

import "time"

// User is a policyholder node in the fraud graph. Nodes are created once per
// load cycle and never mutated in place; CreatedAt is stamped with the load
// clock, not taken from input.
type User struct {
	UserID            string
	Email             string
	Phone             string
	DisplayName       string
	InsuredSex        string
	InsuredAge        int
	InsuredOccupation string
	Address           string
	CreatedAt         time.Time
}
