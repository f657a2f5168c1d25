package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectivePolicySetDedup(t *testing.T) {
	set := NewEffectivePolicySet()

	require.True(t, set.Add(Policy{ID: "p1", Effect: EffectAllow}))
	require.True(t, set.Add(Policy{ID: "p2", Effect: EffectDeny}))
	require.False(t, set.Add(Policy{ID: "p1", Effect: EffectDeny}), "same id must not be added twice")

	require.Equal(t, 2, set.Len())
	require.Equal(t, []string{"p1", "p2"}, set.IDs())

	// The first insertion wins.
	require.Equal(t, EffectAllow, set.Policies()[0].Effect)
}

func TestEffectivePolicySetMerge(t *testing.T) {
	set := NewEffectivePolicySet(Policy{ID: "p1"}, Policy{ID: "p2"})

	other := NewEffectivePolicySet(Policy{ID: "p2"}, Policy{ID: "p3"})
	set.Merge(other)

	require.Equal(t, []string{"p1", "p2", "p3"}, set.IDs())

	set.Merge(nil)
	require.Equal(t, 3, set.Len())
}
