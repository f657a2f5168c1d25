package org

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hodei-artifacts/hodei/internal/policy"
)

func testSCP(id string) policy.Policy {
	return policy.Policy{
		ID:       id,
		Effect:   policy.EffectDeny,
		Document: json.RawMessage(`{"actions":["*"],"resources":["*"]}`),
	}
}

func newTestResolver(store *MemoryStore, cfg Config) *Resolver {
	return NewResolver(ResolverParams{Config: cfg, Accounts: store, SCPs: store})
}

func TestGetEffectiveBoundaryPoliciesAncestry(t *testing.T) {
	store := NewMemoryStore()
	store.PutAccount(Account{ID: "root"})
	store.PutAccount(Account{ID: "ou-eng", ParentID: "root"})
	store.PutAccount(Account{ID: "acct-ci", ParentID: "ou-eng"})
	store.AttachSCP("root", testSCP("scp-root"))
	store.AttachSCP("ou-eng", testSCP("scp-eng"))
	store.AttachSCP("acct-ci", testSCP("scp-ci"))

	// Sibling branch, must not be collected.
	store.PutAccount(Account{ID: "ou-sales", ParentID: "root"})
	store.AttachSCP("ou-sales", testSCP("scp-sales"))

	resolver := newTestResolver(store, Config{})

	set, err := resolver.GetEffectiveBoundaryPolicies(context.Background(), "acct-ci")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"scp-ci", "scp-eng", "scp-root"}, set.IDs())

	for _, p := range set.Policies() {
		require.Equal(t, policy.ProvenanceBoundary, p.Provenance)
	}
}

func TestGetEffectiveBoundaryPoliciesRootOnly(t *testing.T) {
	store := NewMemoryStore()
	store.PutAccount(Account{ID: "root"})

	resolver := newTestResolver(store, Config{})

	set, err := resolver.GetEffectiveBoundaryPolicies(context.Background(), "root")
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}

func TestGetEffectiveBoundaryPoliciesAccountNotFound(t *testing.T) {
	store := NewMemoryStore()
	store.PutAccount(Account{ID: "acct-orphan", ParentID: "missing"})

	resolver := newTestResolver(store, Config{})

	tests := []struct {
		name      string
		accountID string
	}{
		{name: "start account missing", accountID: "acct-ghost"},
		{name: "ancestor missing", accountID: "acct-orphan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := resolver.GetEffectiveBoundaryPolicies(context.Background(), tt.accountID)
			require.Nil(t, set)
			require.True(t, errors.Is(err, ErrAccountNotFound))
		})
	}
}

func TestGetEffectiveBoundaryPoliciesCycle(t *testing.T) {
	store := NewMemoryStore()
	store.PutAccount(Account{ID: "a", ParentID: "b"})
	store.PutAccount(Account{ID: "b", ParentID: "c"})
	store.PutAccount(Account{ID: "c", ParentID: "a"})

	resolver := newTestResolver(store, Config{})

	set, err := resolver.GetEffectiveBoundaryPolicies(context.Background(), "a")
	require.Nil(t, set)
	require.True(t, errors.Is(err, ErrHierarchyCycle))
}

func TestGetEffectiveBoundaryPoliciesDepthLimit(t *testing.T) {
	store := NewMemoryStore()

	// A legitimate chain deeper than the configured bound is rejected the
	// same way a cycle is.
	store.PutAccount(Account{ID: "acct-0"})
	for i := 1; i <= 10; i++ {
		store.PutAccount(Account{
			ID:       fmt.Sprintf("acct-%d", i),
			ParentID: fmt.Sprintf("acct-%d", i-1),
		})
	}

	resolver := newTestResolver(store, Config{MaxDepth: 4})

	set, err := resolver.GetEffectiveBoundaryPolicies(context.Background(), "acct-10")
	require.Nil(t, set)
	require.True(t, errors.Is(err, ErrHierarchyCycle))

	// The full chain fits under the default bound.
	resolver = newTestResolver(store, Config{})

	set, err = resolver.GetEffectiveBoundaryPolicies(context.Background(), "acct-10")
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}
