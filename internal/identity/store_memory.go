package identity

import (
	"context"
	"sync"
	"time"

	"finshare/pkg/platform/sentinel"
)

// InMemoryStore keeps codes and proofs in process memory. Suitable for
// development and single-instance deployments; use the Redis store when
// running more than one replica.
type InMemoryStore struct {
	mu     sync.RWMutex
	codes  map[string]PendingCode
	proofs map[string]Proofs
	now    func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		codes:  make(map[string]PendingCode),
		proofs: make(map[string]Proofs),
		now:    time.Now,
	}
}

// WithClock overrides the store's clock for TTL tests.
func (s *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	s.now = now
	return s
}

func (s *InMemoryStore) PutCode(ctx context.Context, owner, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[owner] = PendingCode{Code: code, ExpiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryStore) GetCode(ctx context.Context, owner string) (PendingCode, error) {
	s.mu.RLock()
	pending, ok := s.codes[owner]
	s.mu.RUnlock()
	if !ok {
		return PendingCode{}, sentinel.ErrNotFound
	}
	if s.now().After(pending.ExpiresAt) {
		s.mu.Lock()
		delete(s.codes, owner)
		s.mu.Unlock()
		return PendingCode{}, sentinel.ErrExpired
	}
	return pending, nil
}

func (s *InMemoryStore) DeleteCode(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, owner)
	return nil
}

func (s *InMemoryStore) PutProof(ctx context.Context, owner string, slot ProofSlot, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.proofs[owner]
	switch slot {
	case ProofCode:
		p.Code = digest
	case ProofNationalID:
		p.NationalID = digest
	}
	s.proofs[owner] = p
	return nil
}

func (s *InMemoryStore) GetProofs(ctx context.Context, owner string) (Proofs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proofs[owner], nil
}

var _ Store = (*InMemoryStore)(nil)
