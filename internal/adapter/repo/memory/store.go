package memory

import (
	"context"
	"sync"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
	"cropline/internal/domain/sim"
)

// Store backs the DB-less server mode. One lock covers everything: RunInTx
// takes it for the whole transaction and marks the context, repo methods
// lock on their own only when called outside a transaction.
type Store struct {
	mu          sync.RWMutex
	farmers     map[string]farm.Farmer
	calls       []farm.CallRecord
	sessions    map[string]ports.SessionRecord
	events      map[string][]sim.Event
	credentials map[string]ports.OperatorCredentialRecord
}

func NewStore() *Store {
	return &Store{
		farmers:     make(map[string]farm.Farmer),
		sessions:    make(map[string]ports.SessionRecord),
		events:      make(map[string][]sim.Event),
		credentials: make(map[string]ports.OperatorCredentialRecord),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func (s *Store) lockRead(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lockWrite(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) SeedFarmer(farmer farm.Farmer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.farmers[farmer.ID] = farmer
}

func (s *Store) SeedCredential(credential ports.OperatorCredentialRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[credential.OperatorID] = credential
}
