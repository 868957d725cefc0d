// Package checkout turns a mixed-supplier shopping cart into one order per
// supplier.
//
// The pipeline is: fetch cart -> partition items by supplier (synchronous
// tiers) -> remote owner lookups for whatever stayed unresolved (concurrent,
// single join) -> build one bulk order request per group -> submit all
// requests concurrently (second join) -> clear the cart only when every
// submission succeeded.
//
// Checkout is not atomic across suppliers. When some submissions succeed and
// others fail, the failure is reported, the succeeded orders remain created
// upstream, and the cart is kept as-is. There is no compensating rollback
// and no idempotency key, so retrying resubmits every group. This mirrors
// the historical behavior of the platform and is deliberately left in place.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/catalog"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/order"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/supplier"
)

// Request holds the caller-supplied input for a checkout.
type Request struct {
	UserID   string
	Shipping order.ShippingInfo
	Notes    string
}

// Result is the outcome of a fully successful checkout. Orders are listed in
// the same relative order as the submitted requests.
type Result struct {
	Orders []order.Summary
}

// Config holds the non-dependency knobs of the checkout Service.
type Config struct {
	// Directory optionally restricts which raw supplier identifiers are
	// trusted during resolution. Nil trusts all of them.
	Directory *supplier.Directory
	// LookupLimit caps concurrent product owner lookups. Zero means
	// unlimited.
	LookupLimit int
	// Metrics may be nil.
	Metrics *Metrics
	// TracerProvider may be nil, in which case spans are not recorded.
	TracerProvider trace.TracerProvider
}

// Service orchestrates cart-to-multi-supplier checkout.
type Service struct {
	carts    cart.Store
	products catalog.Lookup
	orders   order.Service

	directory   *supplier.Directory
	lookupLimit int
	metrics     *Metrics
	tracer      trace.Tracer
}

// NewService creates a checkout Service with the required collaborators.
func NewService(carts cart.Store, products catalog.Lookup, orders order.Service, cfg Config) *Service {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Service{
		carts:       carts,
		products:    products,
		orders:      orders,
		directory:   cfg.Directory,
		lookupLimit: cfg.LookupLimit,
		metrics:     cfg.Metrics,
		tracer:      tp.Tracer("checkout"),
	}
}

// Checkout runs the full pipeline for one user. It reads the cart exactly
// once at entry and clears it exactly once, only after every order
// submission succeeded. On any submission failure the first error is
// returned and the cart is left untouched, even though sibling orders may
// already exist upstream.
func (s *Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "Checkout")
	defer span.End()
	lg := zctx.From(ctx)

	items, err := s.carts.Contents(ctx, req.UserID)
	if err != nil {
		err = errors.Wrap(err, "fetch cart")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	res := Resolve(items, s.directory)
	if excluded := res.Excluded(); len(excluded) > 0 {
		s.metrics.ItemsExcluded(ctx, len(excluded))
		for _, item := range excluded {
			lg.Warn("Cart item excluded from checkout, no supplier key could be produced",
				zap.String("business_name", item.BusinessName),
				zap.Int("quantity", item.Quantity),
			)
		}
	}

	s.resolveDeferred(ctx, res)

	if res.GroupCount() == 0 {
		span.SetStatus(codes.Error, ErrNoResolvableSupplier.Error())
		return nil, ErrNoResolvableSupplier
	}

	span.SetAttributes(
		attribute.Int("checkout.items", len(items)),
		attribute.Int("checkout.supplier_groups", res.GroupCount()),
	)

	reqs := buildRequests(res, req.Shipping, req.Notes)

	summaries, err := s.dispatch(ctx, reqs)
	if err != nil {
		lg.Error("Checkout failed, cart retained",
			zap.Int("order_requests", len(reqs)),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "order submission failed")
		return nil, err
	}

	if err := s.carts.Clear(ctx, req.UserID); err != nil {
		// Orders exist upstream at this point; the stale cart is the
		// lesser problem but the caller still has to hear about it.
		err = errors.Wrap(err, "clear cart after checkout")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.metrics.OrdersSubmitted(ctx, len(summaries))
	lg.Info("Checkout complete",
		zap.Int("orders", len(summaries)),
		zap.Int("items", len(items)),
	)

	return &Result{Orders: summaries}, nil
}
