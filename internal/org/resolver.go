package org

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/hodei-artifacts/hodei/internal/log"
	"github.com/hodei-artifacts/hodei/internal/policy"
)

const defaultMaxDepth = 16

type Config struct {
	// MaxDepth bounds the ancestry walk; hierarchies deeper than this are
	// treated as a data-integrity error.
	MaxDepth int `conf:"max_depth" yaml:"max_depth" json:"max_depth"`
}

type ResolverParams struct {
	fx.In

	Config   Config
	Accounts AccountStore
	SCPs     SCPStore
}

// Resolver computes the effective boundary policy set for an account by
// walking its ancestor chain to the organization root, accumulating each
// level's service control policies. Deny-overrides applies at every level:
// the orchestrator evaluates all gathered SCPs as one flat set, so a match
// at any level wins.
type Resolver struct {
	maxDepth int
	accounts AccountStore
	scps     SCPStore
}

func NewResolver(params ResolverParams) *Resolver {
	maxDepth := params.Config.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	return &Resolver{
		maxDepth: maxDepth,
		accounts: params.Accounts,
		scps:     params.SCPs,
	}
}

// GetEffectiveBoundaryPolicies resolves the boundary policy set for the
// account. Every returned policy is tagged with boundary provenance.
// Traversal is bounded: a revisited account or a chain longer than the
// configured max depth fails with ErrHierarchyCycle.
func (r *Resolver) GetEffectiveBoundaryPolicies(ctx context.Context, accountID string) (*policy.EffectivePolicySet, error) {
	set := policy.NewEffectivePolicySet()
	visited := make(map[string]struct{}, r.maxDepth)

	currentID := accountID
	for depth := 0; ; depth++ {
		if depth >= r.maxDepth {
			return nil, fmt.Errorf("%w: depth limit %d exceeded at account %s", ErrHierarchyCycle, r.maxDepth, currentID)
		}

		if _, seen := visited[currentID]; seen {
			return nil, fmt.Errorf("%w: account %s visited twice", ErrHierarchyCycle, currentID)
		}

		visited[currentID] = struct{}{}

		account, err := r.accounts.GetAccount(ctx, currentID)
		if err != nil {
			return nil, fmt.Errorf("resolve account %s: %w", currentID, err)
		}

		attached, err := r.scps.GetAttachedSCPs(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve scps for account %s: %w", account.ID, err)
		}

		for _, p := range attached {
			p.Provenance = policy.ProvenanceBoundary
			set.Add(p)
		}

		if account.IsRoot() {
			break
		}

		currentID = account.ParentID
	}

	log.Debug(ctx, "resolved boundary policies",
		log.String("account", accountID),
		log.Int("levels", len(visited)),
		log.Int("policies", set.Len()),
	)

	return set, nil
}

var Module = fx.Module("org",
	fx.Provide(NewResolver),
)
