package iam

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/hodei-artifacts/hodei/internal/log"
	"github.com/hodei-artifacts/hodei/internal/policy"
)

type ResolverParams struct {
	fx.In

	Principals PrincipalStore
	Policies   PolicyStore
}

// Resolver computes the effective identity policy set for a principal:
// policies attached directly plus policies attached to each group the
// principal belongs to, deduplicated by policy id. Purely a read; it holds
// no state of its own.
type Resolver struct {
	principals PrincipalStore
	policies   PolicyStore
}

func NewResolver(params ResolverParams) *Resolver {
	return &Resolver{
		principals: params.Principals,
		policies:   params.Policies,
	}
}

// GetEffectivePolicies resolves the effective policy set for the principal.
// Every returned policy is tagged with identity provenance.
func (r *Resolver) GetEffectivePolicies(ctx context.Context, principalID string) (*policy.EffectivePolicySet, error) {
	principal, err := r.principals.GetPrincipal(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("resolve principal %s: %w", principalID, err)
	}

	set := policy.NewEffectivePolicySet()

	direct, err := r.policies.GetAttachedPolicies(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve policies for principal %s: %w", principal.ID, err)
	}

	addTagged(set, direct)

	for _, group := range principal.Groups {
		attached, err := r.policies.GetAttachedPolicies(ctx, group)
		if err != nil {
			return nil, fmt.Errorf("resolve policies for group %s: %w", group, err)
		}

		addTagged(set, attached)
	}

	log.Debug(ctx, "resolved identity policies",
		log.String("principal", principal.ID),
		log.Int("groups", len(principal.Groups)),
		log.Int("policies", set.Len()),
	)

	return set, nil
}

func addTagged(set *policy.EffectivePolicySet, policies []policy.Policy) {
	for _, p := range policies {
		p.Provenance = policy.ProvenanceIdentity
		set.Add(p)
	}
}

var Module = fx.Module("iam",
	fx.Provide(NewResolver),
)
