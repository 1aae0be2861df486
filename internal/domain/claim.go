package domain

// Claim is a filed claim node. SubmittedDate and IncidentDate are kept as raw
// strings; the rapid-filer analysis parses SubmittedDate best-effort and
// skips values it cannot read. FraudScore is an upstream model output and is
// clamped to [0, 1] during input conversion.
type Claim struct {
	ClaimID          string
	PolicyID         string
	ClaimType        string
	ClaimAmount      float64
	Status           string
	SubmittedDate    string
	IncidentDate     string
	Description      string
	InsuranceType    string
	IncidentTime     string
	AccidentLocation string
	HospitalName     string
	AutoMake         string
	AutoModel        string
	AutoYear         int
	UserID           string
	FraudScore       float64
	RiskLevel        string
}
