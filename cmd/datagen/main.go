package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/SoganiJ/InsuraX/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		users       = flag.Int("users", cfg.NumUsers, "number of users to generate")
		policies    = flag.Int("policies", cfg.NumPolicies, "number of base policies to generate")
		claims      = flag.Int("claims", cfg.NumClaims, "number of base claims to generate")
		phoneRings  = flag.Int("phone-rings", cfg.SharedPhonePairs, "number of shared-phone user pairs to plant")
		policyRings = flag.Int("policy-rings", cfg.DuplicatePolicyPairs, "number of duplicated-policy user pairs to plant")
		claimRings  = flag.Int("claim-rings", cfg.DuplicateClaimPairs, "number of identical-claim user pairs to plant")
		rapidFilers = flag.Int("rapid-filers", cfg.RapidFilerUsers, "number of rapid-filing users to plant")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "data", "directory to write users.json, policies.json, and claims.json")
		writeStdout = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumUsers:             *users,
		NumPolicies:          *policies,
		NumClaims:            *claims,
		SharedPhonePairs:     *phoneRings,
		DuplicatePolicyPairs: *policyRings,
		DuplicateClaimPairs:  *claimRings,
		RapidFilerUsers:      *rapidFilers,
		Seed:                 *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d users, %d policies, and %d claims into %s\n",
		len(dataset.Users), len(dataset.Policies), len(dataset.Claims), *outputDir)
}
