package policy

import (
	"github.com/samber/lo"
)

// EffectivePolicySet is the resolved set of policies applicable to a subject,
// deduplicated by policy ID. Order is not significant; it is produced fresh
// per request and discarded after the decision.
type EffectivePolicySet struct {
	policies []Policy
	seen     map[string]struct{}
}

func NewEffectivePolicySet(policies ...Policy) *EffectivePolicySet {
	set := &EffectivePolicySet{seen: make(map[string]struct{}, len(policies))}
	for _, p := range policies {
		set.Add(p)
	}

	return set
}

// Add inserts a policy unless one with the same ID is already present.
// It reports whether the policy was inserted.
func (s *EffectivePolicySet) Add(p Policy) bool {
	if _, ok := s.seen[p.ID]; ok {
		return false
	}

	s.seen[p.ID] = struct{}{}
	s.policies = append(s.policies, p)

	return true
}

// Merge adds every policy of the other set, keeping the dedup invariant.
func (s *EffectivePolicySet) Merge(other *EffectivePolicySet) {
	if other == nil {
		return
	}

	for _, p := range other.policies {
		s.Add(p)
	}
}

// Policies returns the policies in insertion order.
func (s *EffectivePolicySet) Policies() []Policy {
	return s.policies
}

// IDs returns the policy IDs in insertion order.
func (s *EffectivePolicySet) IDs() []string {
	return lo.Map(s.policies, func(p Policy, _ int) string { return p.ID })
}

func (s *EffectivePolicySet) Len() int {
	return len(s.policies)
}
