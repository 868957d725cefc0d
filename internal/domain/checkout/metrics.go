package checkout

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the checkout instrumentation counters. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	ordersSubmitted metric.Int64Counter
	lookupFailures  metric.Int64Counter
	itemsExcluded   metric.Int64Counter
}

// NewMetrics registers the checkout counters on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersSubmitted, err := meter.Int64Counter("checkout.orders_submitted",
		metric.WithDescription("Supplier orders successfully created by checkout"))
	if err != nil {
		return nil, err
	}
	lookupFailures, err := meter.Int64Counter("checkout.lookup_failures",
		metric.WithDescription("Product owner lookups that failed and degraded to a provisional group"))
	if err != nil {
		return nil, err
	}
	itemsExcluded, err := meter.Int64Counter("checkout.items_excluded",
		metric.WithDescription("Cart items dropped because no supplier key could be produced"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersSubmitted: ordersSubmitted,
		lookupFailures:  lookupFailures,
		itemsExcluded:   itemsExcluded,
	}, nil
}

// OrdersSubmitted records n successfully created supplier orders.
func (m *Metrics) OrdersSubmitted(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.ordersSubmitted.Add(ctx, int64(n))
}

// LookupFailed records one failed product owner lookup.
func (m *Metrics) LookupFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.lookupFailures.Add(ctx, 1)
}

// ItemsExcluded records n cart items excluded from checkout.
func (m *Metrics) ItemsExcluded(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.itemsExcluded.Add(ctx, int64(n))
}
