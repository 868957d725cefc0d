package checkout

import (
	"context"
	"sync"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/supplier"
)

// resolveDeferred issues one concurrent product-detail lookup per distinct
// deferred product id and folds the answers back into the resolution.
//
// This is a join point: every lookup settles before any group is finalized.
// A failed or ownerless lookup degrades that item to a provisional singleton
// group instead of aborting the checkout, so none of the group funcs ever
// return an error.
func (s *Service) resolveDeferred(ctx context.Context, res *Resolution) {
	deferred := res.Deferred()
	if len(deferred) == 0 {
		return
	}

	ids := distinctProductIDs(deferred)

	var (
		mu      sync.Mutex
		ownerOf = make(map[string]string, len(ids))
	)

	// Plain errgroup on the parent context: a lookup failure must not
	// cancel its siblings, and none is surfaced as an error.
	var g errgroup.Group
	if s.lookupLimit > 0 {
		g.SetLimit(s.lookupLimit)
	}
	for _, id := range ids {
		g.Go(func() error {
			p, err := s.products.Get(ctx, id)
			if err != nil {
				s.metrics.LookupFailed(ctx)
				zctx.From(ctx).Warn("Product owner lookup failed, falling back to provisional group",
					zap.String("product_id", id),
					zap.Error(err),
				)
				return nil
			}
			if p.OwnerSupplierID == "" {
				return nil
			}
			mu.Lock()
			ownerOf[id] = p.OwnerSupplierID
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range deferred {
		if owner, ok := ownerOf[item.ProductID]; ok {
			res.add(supplier.Confirmed(owner), item)
			continue
		}
		res.add(supplier.Provisional(item.ProductID), item)
	}
	res.deferred = nil
}

// distinctProductIDs returns the unique product ids among items, preserving
// first-seen order.
func distinctProductIDs(items []cart.LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
