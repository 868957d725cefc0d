package checkout

import (
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/supplier"
)

// extractor pulls one of the raw supplier identifier synonyms off a line
// item. Extractors are tried in a fixed priority order so the tie-break
// policy between inconsistent upstream fields stays explicit.
type extractor func(cart.LineItem) string

var rawIDExtractors = []extractor{
	func(it cart.LineItem) string { return it.SupplierID },
	func(it cart.LineItem) string { return it.VendorID },
	func(it cart.LineItem) string { return it.BusinessID },
}

// Resolution is the partition of a cart into supplier groups. Groups preserve
// the order in which their keys were first seen, so downstream order requests
// and result summaries line up deterministically.
type Resolution struct {
	groups   map[supplier.Key][]cart.LineItem
	keyOrder []supplier.Key

	// deferred items had no synchronous identifier and await a remote
	// product lookup.
	deferred []cart.LineItem

	// excluded items could produce no supplier key at all, not even a
	// provisional one. They are dropped from checkout and must be
	// surfaced by the caller.
	excluded []cart.LineItem
}

func newResolution() *Resolution {
	return &Resolution{groups: make(map[supplier.Key][]cart.LineItem)}
}

// add appends item to the group under key, creating the group if needed.
func (r *Resolution) add(key supplier.Key, item cart.LineItem) {
	if _, ok := r.groups[key]; !ok {
		r.keyOrder = append(r.keyOrder, key)
	}
	r.groups[key] = append(r.groups[key], item)
}

// Keys returns the group keys in first-seen order.
func (r *Resolution) Keys() []supplier.Key { return r.keyOrder }

// Group returns the items grouped under key.
func (r *Resolution) Group(key supplier.Key) []cart.LineItem { return r.groups[key] }

// GroupCount returns the number of supplier groups.
func (r *Resolution) GroupCount() int { return len(r.keyOrder) }

// Deferred returns the items awaiting remote lookup.
func (r *Resolution) Deferred() []cart.LineItem { return r.deferred }

// Excluded returns the items dropped because no key could be produced.
func (r *Resolution) Excluded() []cart.LineItem { return r.excluded }

// Resolve partitions cart items by supplier using a tiered heuristic:
//
//  1. The first raw identifier field present on the item wins. When a
//     supplier directory is configured, identifiers unknown to it are
//     treated as absent rather than trusted.
//  2. An item with no identifier borrows one from another cart item with the
//     same business name that resolved in tier 1. Upstream data is
//     inconsistent enough that siblings of one seller often disagree on
//     which field carries the id.
//  3. Anything left is deferred to a remote product lookup.
//
// Items with neither an identifier nor a product id are excluded. Resolve is
// a pure partition: every input item lands in exactly one of groups,
// deferred, or excluded.
func Resolve(items []cart.LineItem, dir *supplier.Directory) *Resolution {
	res := newResolution()

	// Tier 1: direct identifiers, and a business-name index for tier 2.
	keyByBusiness := make(map[string]supplier.Key)
	pending := make([]cart.LineItem, 0, len(items))
	for _, item := range items {
		id := firstRawID(item, dir)
		if id == "" {
			pending = append(pending, item)
			continue
		}
		key := supplier.Confirmed(id)
		res.add(key, item)
		if item.BusinessName != "" {
			if _, ok := keyByBusiness[item.BusinessName]; !ok {
				keyByBusiness[item.BusinessName] = key
			}
		}
	}

	// Tier 2 and 3.
	for _, item := range pending {
		if key, ok := keyByBusiness[item.BusinessName]; ok && item.BusinessName != "" {
			res.add(key, item)
			continue
		}
		if item.ProductID == "" {
			res.excluded = append(res.excluded, item)
			continue
		}
		res.deferred = append(res.deferred, item)
	}

	return res
}

// firstRawID returns the highest-priority raw identifier present on the
// item, or "" when none is usable.
func firstRawID(item cart.LineItem, dir *supplier.Directory) string {
	for _, extract := range rawIDExtractors {
		id := extract(item)
		if id == "" {
			continue
		}
		if !dir.Known(id) {
			continue
		}
		return id
	}
	return ""
}
