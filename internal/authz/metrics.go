package authz

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instruments records the orchestrator's observability signals. A nil
// receiver is a no-op, so metrics stay optional.
type instruments struct {
	decisions metric.Int64Counter
	duration  metric.Float64Histogram
	cacheHits metric.Int64Counter
}

func newInstruments() *instruments {
	meter := otel.Meter("hodei/authz")

	decisions, err := meter.Int64Counter("authz.decisions",
		metric.WithDescription("Authorization decisions by outcome"))
	if err != nil {
		return nil
	}

	duration, err := meter.Float64Histogram("authz.evaluation.duration",
		metric.WithDescription("Authorization evaluation duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil
	}

	cacheHits, err := meter.Int64Counter("authz.cache.requests",
		metric.WithDescription("Decision cache lookups by result"))
	if err != nil {
		return nil
	}

	return &instruments{
		decisions: decisions,
		duration:  duration,
		cacheHits: cacheHits,
	}
}

func (m *instruments) recordDecision(ctx context.Context, outcome Outcome, reason string, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("outcome", string(outcome))}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}

	m.decisions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(attrs...))
}

func (m *instruments) recordCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
