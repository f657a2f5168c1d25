package xregexp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchString(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		str      string
		expected bool
	}{
		{
			name:     "exact match",
			pattern:  "artifact:read",
			str:      "artifact:read",
			expected: true,
		},
		{
			name:     "exact no match",
			pattern:  "artifact:read",
			str:      "artifact:write",
			expected: false,
		},
		{
			name:     "wildcard match",
			pattern:  "artifact:.*",
			str:      "artifact:read",
			expected: true,
		},
		{
			name:     "wildcard no match",
			pattern:  "artifact:.*",
			str:      "repository:delete",
			expected: false,
		},
		{
			name:     "alternation",
			pattern:  "artifact:(read|download)",
			str:      "artifact:download",
			expected: true,
		},
		{
			name:     "character class",
			pattern:  "hrn:hodei:artifact:v[12]",
			str:      "hrn:hodei:artifact:v2",
			expected: true,
		},
		{
			name:     "anchored by default",
			pattern:  "artifact:read",
			str:      "some-artifact:read-suffix",
			expected: false,
		},
		{
			name:     "explicit anchors preserved",
			pattern:  "^artifact:.*$",
			str:      "artifact:read",
			expected: true,
		},
		{
			name:     "case insensitive modifier",
			pattern:  "(?i)artifact:read",
			str:      "Artifact:READ",
			expected: true,
		},
		{
			name:     "invalid pattern matches nothing",
			pattern:  "artifact:[",
			str:      "artifact:[",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchString(tt.pattern, tt.str))
		})
	}
}

func TestMatchString_PatternCacheReuse(t *testing.T) {
	assert.True(t, MatchString("artifact:.*", "artifact:read"))
	assert.True(t, MatchString("artifact:.*", "artifact:write"))
	assert.False(t, MatchString("artifact:.*", "repository:read"))
}
