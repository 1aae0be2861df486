package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/SoganiJ/InsuraX/internal/scoring"
)

// Generator produces synthetic insurance data with planted fraud rings that
// the pattern detectors are guaranteed to surface.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments fragments
	nowFn     func() time.Time
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = DefaultConfig().NumUsers
	}
	if cfg.NumPolicies <= 0 {
		cfg.NumPolicies = DefaultConfig().NumPolicies
	}
	if cfg.NumClaims <= 0 {
		cfg.NumClaims = DefaultConfig().NumClaims
	}
	if cfg.SharedPhonePairs <= 0 {
		cfg.SharedPhonePairs = DefaultConfig().SharedPhonePairs
	}
	if cfg.DuplicatePolicyPairs <= 0 {
		cfg.DuplicatePolicyPairs = DefaultConfig().DuplicatePolicyPairs
	}
	if cfg.DuplicateClaimPairs <= 0 {
		cfg.DuplicateClaimPairs = DefaultConfig().DuplicateClaimPairs
	}
	if cfg.RapidFilerUsers <= 0 {
		cfg.RapidFilerUsers = DefaultConfig().RapidFilerUsers
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if min := cfg.ringSlots() + 2; cfg.NumUsers < min {
		cfg.NumUsers = min
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultFragments(),
		nowFn:     time.Now,
	}
}

// WithClock overrides the reference time used for generated dates.
func (g *Generator) WithClock(fn func() time.Time) *Generator {
	g.nowFn = fn
	return g
}

// Generate synthesises users, policies, and claims. It respects context
// cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	now := g.nowFn().UTC()

	users := make([]UserRecord, g.cfg.NumUsers)
	for i := range users {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		users[i] = g.randomUser(i + 1)
	}

	// Base records only attach to users outside the reserved ring slots.
	base := users[g.cfg.ringSlots():]

	policies := make([]PolicyRecord, 0, g.cfg.NumPolicies)
	for i := 0; i < g.cfg.NumPolicies; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		owner := base[g.rand.Intn(len(base))]
		policies = append(policies, g.randomPolicy(len(policies)+1, owner, now))
	}

	claims := make([]ClaimRecord, 0, g.cfg.NumClaims)
	for i := 0; i < g.cfg.NumClaims; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		policy := policies[g.rand.Intn(len(policies))]
		claims = append(claims, g.randomClaim(len(claims)+1, policy, now))
	}

	dataset := Dataset{Users: users, Policies: policies, Claims: claims}
	g.plantRings(&dataset, now)
	return dataset, nil
}

// plantRings rewrites the reserved leading users into detectable patterns:
// shared phones, duplicated policy details, identical claims, and rapid
// filing bursts. Every ring member gets dedicated policies and claims so the
// pattern survives regardless of how the random base data landed.
func (g *Generator) plantRings(ds *Dataset, now time.Time) {
	idx := 0

	for i := 0; i < g.cfg.SharedPhonePairs; i++ {
		a, b := &ds.Users[idx], &ds.Users[idx+1]
		idx += 2
		b.Phone = a.Phone

		for _, u := range []UserRecord{*a, *b} {
			policy := g.randomPolicy(len(ds.Policies)+1, u, now)
			ds.Policies = append(ds.Policies, policy)
			ds.Claims = append(ds.Claims, g.ringClaim(len(ds.Claims)+1, policy, now))
		}
	}

	for i := 0; i < g.cfg.DuplicatePolicyPairs; i++ {
		a, b := ds.Users[idx], ds.Users[idx+1]
		idx += 2

		template := g.randomPolicy(len(ds.Policies)+1, a, now)
		ds.Policies = append(ds.Policies, template)

		twin := template
		twin.PolicyID = fmt.Sprintf("POL-%06d", len(ds.Policies)+1)
		twin.HolderName = b.DisplayName
		twin.UserID = b.UID
		ds.Policies = append(ds.Policies, twin)

		for _, policy := range []PolicyRecord{template, twin} {
			ds.Claims = append(ds.Claims, g.ringClaim(len(ds.Claims)+1, policy, now))
		}
	}

	for i := 0; i < g.cfg.DuplicateClaimPairs; i++ {
		a, b := ds.Users[idx], ds.Users[idx+1]
		idx += 2

		first := g.randomPolicy(len(ds.Policies)+1, a, now)
		ds.Policies = append(ds.Policies, first)

		second := g.randomPolicy(len(ds.Policies)+1, b, now)
		second.InsuranceType = first.InsuranceType
		second.PolicyName = first.PolicyName
		// keep claim rings from doubling as policy rings
		if second.AnnualPremium == first.AnnualPremium {
			second.AnnualPremium = first.AnnualPremium + 1500
		}
		ds.Policies = append(ds.Policies, second)

		template := g.ringClaim(len(ds.Claims)+1, first, now)
		ds.Claims = append(ds.Claims, template)

		twin := template
		twin.ClaimID = fmt.Sprintf("CLM-%06d", len(ds.Claims)+1)
		twin.PolicyID = second.PolicyID
		twin.UserID = second.UserID
		ds.Claims = append(ds.Claims, twin)
	}

	for i := 0; i < g.cfg.RapidFilerUsers; i++ {
		u := ds.Users[idx]
		idx++

		policy := g.randomPolicy(len(ds.Policies)+1, u, now)
		ds.Policies = append(ds.Policies, policy)

		burstStart := now.AddDate(0, 0, -(g.rand.Intn(40) + 20))
		for j, offset := range []int{0, 4, 9} {
			claim := g.ringClaim(len(ds.Claims)+1, policy, now)
			claim.SubmittedDate = burstStart.AddDate(0, 0, offset).Format("2006-01-02")
			if j == 0 {
				claim.SubmittedDate = burstStart.Format(time.RFC3339)
			}
			claim.IncidentDate = burstStart.AddDate(0, 0, offset-2).Format("2006-01-02")
			ds.Claims = append(ds.Claims, claim)
		}
	}
}

func (g *Generator) randomUser(n int) UserRecord {
	first := g.pick(g.fragments.firstNames)
	last := g.pick(g.fragments.lastNames)
	return UserRecord{
		UID:               fmt.Sprintf("USR-%06d", n),
		Email:             fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), g.rand.Intn(100), g.pick(g.fragments.domains)),
		Phone:             fmt.Sprintf("+91%d", 9000000000+g.rand.Int63n(1000000000)),
		DisplayName:       first + " " + last,
		InsuredSex:        g.pick([]string{"MALE", "FEMALE"}),
		InsuredAge:        21 + g.rand.Intn(50),
		InsuredOccupation: g.pick(g.fragments.occupations),
		Address:           fmt.Sprintf("%d %s, %s", g.rand.Intn(999)+1, g.pick(g.fragments.streets), g.pick(g.fragments.cities)),
	}
}

func (g *Generator) randomPolicy(n int, owner UserRecord, now time.Time) PolicyRecord {
	insuranceType := g.pick(g.fragments.insuranceTypes)
	termYears := []int{1, 3, 5, 10}[g.rand.Intn(4)]
	start := now.AddDate(0, 0, -g.rand.Intn(1095))
	premiums := []float64{8000, 12000, 15000, 18000, 24000, 30000, 36000, 45000, 60000}
	sums := []float64{100000, 250000, 500000, 750000, 1000000, 2000000}

	return PolicyRecord{
		PolicyID:      fmt.Sprintf("POL-%06d", n),
		PolicyName:    fmt.Sprintf("%s %s Plan", g.pick([]string{"Secure", "Shield", "Prime", "Total", "Smart", "Gold"}), g.fragments.typeLabels[insuranceType]),
		InsuranceType: insuranceType,
		Term:          termLabel(termYears),
		StartDate:     start.Format("2006-01-02"),
		EndDate:       start.AddDate(termYears, 0, 0).Format("2006-01-02"),
		AnnualPremium: premiums[g.rand.Intn(len(premiums))],
		SumInsured:    sums[g.rand.Intn(len(sums))],
		State:         g.pick(g.fragments.states),
		City:          g.pick(g.fragments.cities),
		HolderName:    owner.DisplayName,
		UserID:        owner.UID,
	}
}

func (g *Generator) randomClaim(n int, policy PolicyRecord, now time.Time) ClaimRecord {
	incident := now.AddDate(0, 0, -(g.rand.Intn(330) + 30))
	submitted := incident.AddDate(0, 0, g.rand.Intn(25)+3)
	submittedDate := submitted.Format("2006-01-02")
	if g.rand.Float64() < 0.3 {
		submittedDate = submitted.Format(time.RFC3339)
	}

	score := g.rand.Float64() * 0.45
	if g.rand.Float64() < 0.12 {
		score = 0.7 + g.rand.Float64()*0.3
	}

	claim := ClaimRecord{
		ClaimID:       fmt.Sprintf("CLM-%06d", n),
		PolicyID:      policy.PolicyID,
		ClaimType:     g.pick(g.fragments.claimTypes[policy.InsuranceType]),
		ClaimAmount:   float64((g.rand.Intn(99) + 1) * 5000),
		Status:        g.pick([]string{"submitted", "under_review", "approved", "rejected"}),
		SubmittedDate: submittedDate,
		IncidentDate:  incident.Format("2006-01-02"),
		Description:   g.pick(g.fragments.descriptions),
		InsuranceType: policy.InsuranceType,
		IncidentTime:  fmt.Sprintf("%02d:%02d", g.rand.Intn(24), g.rand.Intn(60)),
		UserID:        policy.UserID,
		FraudScore:    score,
		RiskLevel:     scoring.RiskBand(score),
	}

	switch policy.InsuranceType {
	case "auto":
		claim.AccidentLocation = fmt.Sprintf("%s, %s", g.pick(g.fragments.streets), g.pick(g.fragments.cities))
		claim.AutoMake = g.pick(g.fragments.autoMakes)
		claim.AutoModel = g.pick(g.fragments.autoModels)
		claim.AutoYear = 2005 + g.rand.Intn(20)
	case "health":
		claim.HospitalName = g.pick(g.fragments.hospitals)
	}

	return claim
}

// ringClaim is a randomClaim with a fraud score high enough to stand out in
// the score-based indicators.
func (g *Generator) ringClaim(n int, policy PolicyRecord, now time.Time) ClaimRecord {
	claim := g.randomClaim(n, policy, now)
	claim.FraudScore = 0.65 + g.rand.Float64()*0.3
	claim.RiskLevel = scoring.RiskBand(claim.FraudScore)
	return claim
}

func (g *Generator) pick(options []string) string {
	return options[g.rand.Intn(len(options))]
}

func termLabel(years int) string {
	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}

type fragments struct {
	firstNames     []string
	lastNames      []string
	domains        []string
	streets        []string
	cities         []string
	states         []string
	occupations    []string
	hospitals      []string
	autoMakes      []string
	autoModels     []string
	insuranceTypes []string
	typeLabels     map[string]string
	claimTypes     map[string][]string
	descriptions   []string
}

func defaultFragments() fragments {
	return fragments{
		firstNames:     []string{"Asha", "Rohan", "Priya", "Vikram", "Neha", "Arjun", "Kavya", "Sanjay", "Meera", "Rahul", "Divya", "Amit", "Sneha", "Karthik", "Pooja"},
		lastNames:      []string{"Sharma", "Patel", "Rao", "Iyer", "Khan", "Gupta", "Nair", "Singh", "Reddy", "Das", "Mehta", "Joshi"},
		domains:        []string{"example.com", "mail.com", "inbox.in", "postbox.org"},
		streets:        []string{"MG Road", "Link Road", "Station Road", "Ring Road", "Park Street", "Hill View Lane", "Lake Shore Drive", "Temple Street"},
		cities:         []string{"Mumbai", "Bengaluru", "Delhi", "Chennai", "Ahmedabad", "Jaipur", "Pune", "Hyderabad", "Kolkata"},
		states:         []string{"Maharashtra", "Karnataka", "Delhi", "Tamil Nadu", "Gujarat", "Rajasthan", "Telangana", "West Bengal"},
		occupations:    []string{"craft-repair", "exec-managerial", "sales", "tech-support", "farming-fishing", "transport-moving", "adm-clerical", "machine-op-inspct"},
		hospitals:      []string{"Apollo Hospital", "Fortis Care", "Max Health Centre", "Manipal Clinic", "Ruby Hall Clinic"},
		autoMakes:      []string{"Maruti", "Hyundai", "Tata", "Honda", "Toyota", "Mahindra"},
		autoModels:     []string{"Swift", "i20", "Nexon", "City", "Innova", "XUV500", "Baleno", "Creta"},
		insuranceTypes: []string{"auto", "health", "home", "life", "travel"},
		typeLabels: map[string]string{
			"auto":   "Auto",
			"health": "Health",
			"home":   "Home",
			"life":   "Life",
			"travel": "Travel",
		},
		claimTypes: map[string][]string{
			"auto":   {"collision", "theft", "vandalism", "third-party"},
			"health": {"hospitalization", "surgery", "outpatient", "maternity"},
			"home":   {"fire", "water damage", "burglary", "storm"},
			"life":   {"critical illness", "disability", "terminal benefit"},
			"travel": {"trip cancellation", "baggage loss", "medical emergency"},
		},
		descriptions: []string{
			"Vehicle damaged in intersection collision",
			"Emergency admission after a fall at home",
			"Short circuit fire in the kitchen wiring",
			"Burglary reported while family was travelling",
			"Flight cancelled due to weather, trip abandoned",
			"Windshield and bumper damage in parking lot",
			"Planned surgery following specialist referral",
			"Water seepage damaged flooring and furniture",
		},
	}
}
