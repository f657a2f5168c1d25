package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeDecision is emitted once per authorization decision.
const EventTypeDecision = "authorization.decision"

// Event is the observation emitted after each decision. It carries enough
// for an external store to index by aggregate id, event type and time range.
type Event struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	AggregateID         string    `json:"aggregate_id"`
	PrincipalID         string    `json:"principal_id"`
	Action              string    `json:"action"`
	ResourceID          string    `json:"resource_id"`
	Outcome             string    `json:"outcome"`
	DeterminingPolicies []string  `json:"determining_policies,omitempty"`
	Diagnostic          string    `json:"diagnostic,omitempty"`
	TraceID             string    `json:"trace_id,omitempty"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// NewDecisionEvent builds a decision event keyed by the principal as the
// aggregate.
func NewDecisionEvent(principalID, action, resourceID, outcome string) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        EventTypeDecision,
		AggregateID: principalID,
		PrincipalID: principalID,
		Action:      action,
		ResourceID:  resourceID,
		Outcome:     outcome,
		OccurredAt:  time.Now().UTC(),
	}
}
