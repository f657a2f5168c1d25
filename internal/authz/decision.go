package authz

// Outcome is the terminal state of one authorization call.
type Outcome string

const (
	OutcomeAllow Outcome = "allow"
	OutcomeDeny  Outcome = "deny"

	// OutcomeIndeterminate marks infrastructure failure (unknown principal
	// or account, hierarchy cycle, resolver timeout). It is never used for
	// "no matching policy" — that is an implicit deny. Callers must treat
	// it as deny.
	OutcomeIndeterminate Outcome = "indeterminate"
)

// Decision is the result of Authorize. Failures are carried inside the value;
// the orchestrator never propagates them as errors.
type Decision struct {
	Outcome Outcome `json:"outcome"`

	// Explicit is false for the implicit default-deny produced when no
	// policy matched, and for indeterminate outcomes.
	Explicit bool `json:"explicit"`

	// DeterminingPolicies lists the policy ids that decided the outcome.
	DeterminingPolicies []string `json:"determining_policies,omitempty"`

	// Diagnostic is a human-readable explanation of the outcome.
	Diagnostic string `json:"diagnostic,omitempty"`

	// Reason is a stable machine-readable code for indeterminate outcomes.
	Reason string `json:"reason,omitempty"`

	// FromCache reports whether the decision was served from the decision
	// cache rather than freshly evaluated.
	FromCache bool `json:"from_cache,omitempty"`
}

// Allowed reports whether access is granted. Indeterminate is fail-closed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}
