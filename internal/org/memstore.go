package org

import (
	"context"
	"fmt"
	"sync"

	"github.com/hodei-artifacts/hodei/internal/policy"
)

// MemoryStore is an in-memory organization store implementing AccountStore
// and SCPStore. It backs the CLI and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	accounts    map[string]Account
	attachments map[string][]policy.Policy
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[string]Account),
		attachments: make(map[string][]policy.Policy),
	}
}

// PutAccount creates or replaces an account.
func (s *MemoryStore) PutAccount(a Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[a.ID] = a
}

// AttachSCP attaches a service control policy to an account.
func (s *MemoryStore) AttachSCP(accountID string, p policy.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attachments[accountID] = append(s.attachments[accountID], p)
}

func (s *MemoryStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}

	return &a, nil
}

func (s *MemoryStore) GetAttachedSCPs(ctx context.Context, accountID string) ([]policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attached := s.attachments[accountID]

	out := make([]policy.Policy, len(attached))
	copy(out, attached)

	return out, nil
}
