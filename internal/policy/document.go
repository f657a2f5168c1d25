package policy

import (
	"encoding/json"
	"fmt"

	"github.com/hodei-artifacts/hodei/internal/pkg/xregexp"
)

// Document is the matching predicate of a policy. Actions and resources are
// anchored regular expression patterns (a bare "*" matches everything, and
// plain strings without metacharacters compare exactly); condition is an
// optional expr-lang boolean expression over the request attributes.
type Document struct {
	Actions   []string `json:"actions"`
	Resources []string `json:"resources"`
	Condition string   `json:"condition,omitempty"`
}

// ParseDocument decodes and validates a raw policy document.
func ParseDocument(raw json.RawMessage) (Document, error) {
	var doc Document

	if len(raw) == 0 {
		return doc, fmt.Errorf("document is empty")
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}

	if len(doc.Actions) == 0 {
		return doc, fmt.Errorf("document has no actions")
	}

	if len(doc.Resources) == 0 {
		return doc, fmt.Errorf("document has no resources")
	}

	return doc, nil
}

// matchesAny reports whether value matches at least one pattern.
func matchesAny(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if pattern == "*" {
			return true
		}

		if xregexp.MatchString(pattern, value) {
			return true
		}
	}

	return false
}
