package domain

// Policy is an insurance policy node owned by exactly one user. Date fields
// stay as the strings the upstream system supplied; nothing downstream parses
// them.
type Policy struct {
	PolicyID      string
	PolicyName    string
	InsuranceType string
	Term          string
	StartDate     string
	EndDate       string
	AnnualPremium float64
	SumInsured    float64
	State         string
	City          string
	HolderName    string
	UserID        string
}
