package iam

import (
	"context"
	"fmt"
	"sync"

	"github.com/hodei-artifacts/hodei/internal/policy"
)

// MemoryStore is an in-memory identity store implementing PrincipalStore and
// PolicyStore. It backs the CLI and tests; production deployments plug in
// their own stores.
type MemoryStore struct {
	mu          sync.RWMutex
	principals  map[string]Principal
	attachments map[string][]policy.Policy
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		principals:  make(map[string]Principal),
		attachments: make(map[string][]policy.Policy),
	}
}

// PutPrincipal creates or replaces a principal.
func (s *MemoryStore) PutPrincipal(p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.principals[p.ID] = p
}

// AttachPolicy attaches a policy to a subject (principal or group id).
func (s *MemoryStore) AttachPolicy(subjectID string, p policy.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attachments[subjectID] = append(s.attachments[subjectID], p)
}

func (s *MemoryStore) GetPrincipal(ctx context.Context, id string) (*Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.principals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPrincipalNotFound, id)
	}

	return &p, nil
}

func (s *MemoryStore) GetAttachedPolicies(ctx context.Context, subjectID string) ([]policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attached := s.attachments[subjectID]

	out := make([]policy.Policy, len(attached))
	copy(out, attached)

	return out, nil
}
