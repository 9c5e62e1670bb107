package main

import (
	"context"
	"testing"

	"cropline/internal/app/operators"
	"cropline/internal/config"
	"cropline/internal/domain/farm"
)

func TestBuildMemoryReposSeedsDefaultFarmer(t *testing.T) {
	repos := buildMemoryRepos()
	if !repos.memoryMode {
		t.Fatalf("expected memory mode")
	}

	want := farm.DefaultFarmer()
	got, err := repos.farmers.GetByID(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("default farmer not seeded: %v", err)
	}
	if got.Name != want.Name {
		t.Fatalf("seeded farmer name = %q, want %q", got.Name, want.Name)
	}
	if !got.Needs.Any() {
		t.Fatalf("seeded farmer should start with open needs")
	}
}

func TestSeedDemoOperatorIssuesWorkingCredentials(t *testing.T) {
	repos := buildMemoryRepos()

	resp, err := seedDemoOperator(repos)
	if err != nil {
		t.Fatalf("seed demo operator: %v", err)
	}
	if resp.OperatorID == "" || resp.OperatorKey == "" {
		t.Fatalf("incomplete credentials: %+v", resp)
	}

	verify := operators.VerifyUseCase{Credentials: repos.credentials}
	if err := verify.Execute(context.Background(), operators.VerifyRequest{
		OperatorID:  resp.OperatorID,
		OperatorKey: resp.OperatorKey,
	}); err != nil {
		t.Fatalf("issued credentials do not verify: %v", err)
	}
}

func TestBuildClassifierWithoutKey(t *testing.T) {
	if got := buildClassifier(config.Config{}); got != nil {
		t.Fatalf("expected nil classifier without an API key")
	}
}
