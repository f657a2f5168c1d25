package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name            string
		evaluations     []Evaluation
		wantEffect      Effect
		wantExplicit    bool
		wantDetermining []string
	}{
		{
			name:         "no evaluations is implicit deny",
			evaluations:  nil,
			wantEffect:   EffectDeny,
			wantExplicit: false,
		},
		{
			name: "nothing matched is implicit deny",
			evaluations: []Evaluation{
				{PolicyID: "p1", Effect: EffectAllow, Matched: false},
			},
			wantEffect:   EffectDeny,
			wantExplicit: false,
		},
		{
			name: "single allow",
			evaluations: []Evaluation{
				{PolicyID: "p1", Effect: EffectAllow, Matched: true},
			},
			wantEffect:      EffectAllow,
			wantExplicit:    true,
			wantDetermining: []string{"p1"},
		},
		{
			name: "deny overrides allow",
			evaluations: []Evaluation{
				{PolicyID: "p1", Effect: EffectAllow, Matched: true},
				{PolicyID: "p2", Effect: EffectDeny, Matched: true},
			},
			wantEffect:      EffectDeny,
			wantExplicit:    true,
			wantDetermining: []string{"p2"},
		},
		{
			name: "deny overrides regardless of order",
			evaluations: []Evaluation{
				{PolicyID: "p2", Effect: EffectDeny, Matched: true},
				{PolicyID: "p1", Effect: EffectAllow, Matched: true},
			},
			wantEffect:      EffectDeny,
			wantExplicit:    true,
			wantDetermining: []string{"p2"},
		},
		{
			name: "unmatched deny does not override",
			evaluations: []Evaluation{
				{PolicyID: "p1", Effect: EffectAllow, Matched: true},
				{PolicyID: "p2", Effect: EffectDeny, Matched: false},
			},
			wantEffect:      EffectAllow,
			wantExplicit:    true,
			wantDetermining: []string{"p1"},
		},
		{
			name: "all determining denies reported",
			evaluations: []Evaluation{
				{PolicyID: "p1", Effect: EffectDeny, Matched: true},
				{PolicyID: "p2", Effect: EffectDeny, Matched: true},
				{PolicyID: "p3", Effect: EffectAllow, Matched: true},
			},
			wantEffect:      EffectDeny,
			wantExplicit:    true,
			wantDetermining: []string{"p1", "p2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Combine(tt.evaluations)

			require.Equal(t, tt.wantEffect, outcome.Effect)
			require.Equal(t, tt.wantExplicit, outcome.Explicit)
			require.Equal(t, tt.wantDetermining, outcome.Determining)
			require.Equal(t, tt.wantEffect == EffectAllow, outcome.Allowed())
		})
	}
}
