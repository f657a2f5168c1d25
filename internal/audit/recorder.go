package audit

import (
	"context"
	"sync"
	"time"

	"github.com/hodei-artifacts/hodei/internal/log"
)

// Recorder consumes decision events. Implementations must not block the
// decision path; persistence belongs to external collaborators.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// LogRecorder writes events to the structured log.
type LogRecorder struct{}

func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (r *LogRecorder) Record(ctx context.Context, event Event) {
	log.Info(ctx, "authorization decision",
		log.String("event_id", event.ID),
		log.String("event_type", event.Type),
		log.String("principal", event.PrincipalID),
		log.String("action", event.Action),
		log.String("resource", event.ResourceID),
		log.String("outcome", event.Outcome),
		log.Strings("determining_policies", event.DeterminingPolicies),
		log.Time("occurred_at", event.OccurredAt),
	)
}

// Filter selects events by aggregate, type and time range. Zero fields match
// everything.
type Filter struct {
	AggregateID string
	Type        string
	From        time.Time
	To          time.Time
}

func (f Filter) matches(event Event) bool {
	if f.AggregateID != "" && event.AggregateID != f.AggregateID {
		return false
	}

	if f.Type != "" && event.Type != f.Type {
		return false
	}

	if !f.From.IsZero() && event.OccurredAt.Before(f.From) {
		return false
	}

	if !f.To.IsZero() && event.OccurredAt.After(f.To) {
		return false
	}

	return true
}

// MemoryRecorder keeps events in memory, queryable the way an external audit
// store would index them. Used by the CLI and tests.
type MemoryRecorder struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

// Query returns the events matching the filter in record order.
func (r *MemoryRecorder) Query(filter Filter) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event

	for _, event := range r.events {
		if filter.matches(event) {
			out = append(out, event)
		}
	}

	return out
}

// Len returns the number of recorded events.
func (r *MemoryRecorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.events)
}
