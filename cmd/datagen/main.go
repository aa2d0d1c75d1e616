package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/generator"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/profilecsv"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		users       = flag.Int("users", cfg.NumUsers, "number of users to generate")
		friends     = flag.Int("friends", cfg.FriendsPerUser, "target mean number of friends per user")
		homophily   = flag.Float64("homophily", cfg.Homophily, "bias toward befriending similar users, 0..1")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output      = flag.String("output", "data/user_profiles.csv", "output file; a .json extension writes JSON")
		writeStdout = flag.Bool("stdout", false, "write CSV to stdout instead of a file")
	)
	flag.Parse()

	genCfg := cfg
	genCfg.NumUsers = *users
	genCfg.FriendsPerUser = *friends
	genCfg.Homophily = clampProbability(*homophily)
	genCfg.Seed = *seed

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	profiles, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := profilecsv.Write(os.Stdout, profiles); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(profiles, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	edges := 0
	for _, p := range profiles {
		edges += len(p.Friends)
	}
	fmt.Fprintf(os.Stdout, "Generated %d users and %d friendships into %s\n", len(profiles), edges/2, *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
