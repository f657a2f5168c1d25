package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDecisionEvent(t *testing.T) {
	event := NewDecisionEvent("user:alice", "artifact:read", "repo/core/app-1.0.jar", "allow")

	require.NotEmpty(t, event.ID)
	require.Equal(t, EventTypeDecision, event.Type)
	require.Equal(t, "user:alice", event.AggregateID)
	require.Equal(t, "user:alice", event.PrincipalID)
	require.Equal(t, "allow", event.Outcome)
	require.False(t, event.OccurredAt.IsZero())

	other := NewDecisionEvent("user:alice", "artifact:read", "repo/core/app-1.0.jar", "allow")
	require.NotEqual(t, event.ID, other.ID)
}

func TestMemoryRecorderQuery(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	alice := NewDecisionEvent("user:alice", "artifact:read", "r1", "allow")
	alice.OccurredAt = base

	aliceLater := NewDecisionEvent("user:alice", "artifact:write", "r2", "deny")
	aliceLater.OccurredAt = base.Add(time.Hour)

	bob := NewDecisionEvent("user:bob", "artifact:read", "r1", "deny")
	bob.OccurredAt = base.Add(30 * time.Minute)

	recorder.Record(ctx, alice)
	recorder.Record(ctx, aliceLater)
	recorder.Record(ctx, bob)

	require.Equal(t, 3, recorder.Len())

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{
			name:    "empty filter matches all",
			filter:  Filter{},
			wantIDs: []string{alice.ID, aliceLater.ID, bob.ID},
		},
		{
			name:    "by aggregate",
			filter:  Filter{AggregateID: "user:alice"},
			wantIDs: []string{alice.ID, aliceLater.ID},
		},
		{
			name:    "by type",
			filter:  Filter{Type: EventTypeDecision},
			wantIDs: []string{alice.ID, aliceLater.ID, bob.ID},
		},
		{
			name:    "unknown type matches nothing",
			filter:  Filter{Type: "other"},
			wantIDs: nil,
		},
		{
			name:    "time range",
			filter:  Filter{From: base.Add(15 * time.Minute), To: base.Add(45 * time.Minute)},
			wantIDs: []string{bob.ID},
		},
		{
			name:    "aggregate and time range",
			filter:  Filter{AggregateID: "user:alice", From: base.Add(time.Minute)},
			wantIDs: []string{aliceLater.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := recorder.Query(tt.filter)

			ids := make([]string, 0, len(events))
			for _, event := range events {
				ids = append(ids, event.ID)
			}

			if tt.wantIDs == nil {
				require.Empty(t, ids)
				return
			}

			require.Equal(t, tt.wantIDs, ids)
		})
	}
}
