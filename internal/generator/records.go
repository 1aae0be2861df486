package generator

// Record types marshal with the same keys the detect endpoint and the ingest
// CLI accept, so a generated dataset can be loaded without translation.

type UserRecord struct {
	UID               string `json:"uid"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	DisplayName       string `json:"displayName"`
	InsuredSex        string `json:"insured_sex"`
	InsuredAge        int    `json:"insured_age"`
	InsuredOccupation string `json:"insured_occupation"`
	Address           string `json:"address"`
}

type PolicyRecord struct {
	PolicyID      string  `json:"policyId"`
	PolicyName    string  `json:"policyName"`
	InsuranceType string  `json:"insurance_type"`
	Term          string  `json:"policy_term"`
	StartDate     string  `json:"policy_start_date"`
	EndDate       string  `json:"policy_end_date"`
	AnnualPremium float64 `json:"policy_annual_premium"`
	SumInsured    float64 `json:"sum_insured"`
	State         string  `json:"policy_state"`
	City          string  `json:"policy_city"`
	HolderName    string  `json:"holderName"`
	UserID        string  `json:"userId"`
}

type ClaimRecord struct {
	ClaimID          string  `json:"claimId"`
	PolicyID         string  `json:"policyId"`
	ClaimType        string  `json:"claimType"`
	ClaimAmount      float64 `json:"claimAmount"`
	Status           string  `json:"status"`
	SubmittedDate    string  `json:"submittedDate"`
	IncidentDate     string  `json:"incidentDate"`
	Description      string  `json:"description"`
	InsuranceType    string  `json:"insurance_type"`
	IncidentTime     string  `json:"incident_time"`
	AccidentLocation string  `json:"accident_location"`
	HospitalName     string  `json:"hospital_name"`
	AutoMake         string  `json:"auto_make"`
	AutoModel        string  `json:"auto_model"`
	AutoYear         int     `json:"auto_year"`
	UserID           string  `json:"userId"`
	FraudScore       float64 `json:"fraudScore"`
	RiskLevel        string  `json:"riskLevel"`
}

// Dataset contains the generated users, policies, and claims.
type Dataset struct {
	Users    []UserRecord   `json:"users"`
	Policies []PolicyRecord `json:"policies"`
	Claims   []ClaimRecord  `json:"claims"`
}
