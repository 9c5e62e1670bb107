package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cropline/internal/app/ports"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if _, err := s.Get(ctx, "last_farmer"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "last_farmer", "F-0042"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "last_farmer", "F-0001"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Get(ctx, "last_farmer")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "F-0001" {
		t.Fatalf("got %q, want last written value", got)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "server_url", "http://localhost:8080"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, "server_url")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != "http://localhost:8080" {
		t.Fatalf("got %q", got)
	}
}
