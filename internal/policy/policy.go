package policy

import (
	"encoding/json"
)

// Effect is the outcome a policy contributes when it matches.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Provenance records which subsystem a policy was resolved from.
type Provenance string

const (
	// ProvenanceIdentity marks policies attached to a principal directly
	// or through group membership.
	ProvenanceIdentity Provenance = "identity"

	// ProvenanceBoundary marks service control policies accumulated from
	// the owning account's organization hierarchy.
	ProvenanceBoundary Provenance = "boundary"
)

// Policy is an attribute-based rule with an effect and a matching predicate.
// Identity of a policy is structural: two policies with the same ID are the
// same policy regardless of document equality.
type Policy struct {
	ID         string          `json:"id"`
	Effect     Effect          `json:"effect"`
	Document   json.RawMessage `json:"document"`
	Provenance Provenance      `json:"provenance,omitempty"`
}

// Resource identifies the target of an authorization request together with
// the attributes conditions may reference.
type Resource struct {
	ID         string         `json:"id"`
	AccountID  string         `json:"account_id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Request is one concrete authorization question. It is an immutable value:
// the engine never mutates it and holds no reference past evaluation.
type Request struct {
	PrincipalID string         `json:"principal_id"`
	Action      string         `json:"action"`
	Resource    Resource       `json:"resource"`
	Context     map[string]any `json:"context,omitempty"`
}
