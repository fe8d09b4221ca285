package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrOrdering  = attribute.Key("ordering")
	AttrDirection = attribute.Key("direction")
	AttrOutcome   = attribute.Key("outcome")
)

// Allocation outcomes
const (
	OutcomeMatched      = "matched"
	OutcomeInsufficient = "insufficient"
	OutcomeFailed       = "failed"
)

// MatchingMetrics records what the allocator and reversal do.
// A nil *MatchingMetrics records nothing.
type MatchingMetrics struct {
	allocations     metric.Int64Counter
	matchesCreated  metric.Int64Counter
	matchedQuantity metric.Float64Counter
	reversals       metric.Int64Counter
	matchesReleased metric.Int64Counter
	duration        metric.Float64Histogram
}

// NewMatchingMetrics registers the matching instruments on meter
func NewMatchingMetrics(meter metric.Meter) (*MatchingMetrics, error) {
	m := &MatchingMetrics{}
	var err error

	if m.allocations, err = meter.Int64Counter("stock.allocations",
		metric.WithDescription("Outbound allocations by outcome"),
		metric.WithUnit("{allocation}"),
	); err != nil {
		return nil, err
	}
	if m.matchesCreated, err = meter.Int64Counter("stock.matches.created",
		metric.WithDescription("Matches created by allocations"),
		metric.WithUnit("{match}"),
	); err != nil {
		return nil, err
	}
	if m.matchedQuantity, err = meter.Float64Counter("stock.matched.quantity",
		metric.WithDescription("Quantity consumed from inbound lines"),
	); err != nil {
		return nil, err
	}
	if m.reversals, err = meter.Int64Counter("stock.reversals",
		metric.WithDescription("Lines returned to draft"),
		metric.WithUnit("{line}"),
	); err != nil {
		return nil, err
	}
	if m.matchesReleased, err = meter.Int64Counter("stock.matches.released",
		metric.WithDescription("Matches deleted by reversals"),
		metric.WithUnit("{match}"),
	); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("stock.allocation.duration",
		metric.WithDescription("Time spent planning and persisting an allocation"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordAllocation records one allocation attempt
func (m *MatchingMetrics) RecordAllocation(ctx context.Context, ordering, outcome string, matches int, quantity decimal.Decimal, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrOrdering.String(ordering), AttrOutcome.String(outcome))
	m.allocations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	if outcome != OutcomeMatched {
		return
	}
	m.matchesCreated.Add(ctx, int64(matches), metric.WithAttributes(AttrOrdering.String(ordering)))
	m.matchedQuantity.Add(ctx, quantity.InexactFloat64(), metric.WithAttributes(AttrOrdering.String(ordering)))
}

// RecordReversal records a line returned to draft and the matches it released
func (m *MatchingMetrics) RecordReversal(ctx context.Context, direction string, released int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrDirection.String(direction))
	m.reversals.Add(ctx, 1, attrs)
	m.matchesReleased.Add(ctx, int64(released), attrs)
}
