package checkout

import (
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/order"
)

// buildRequests converts the final supplier groups into one order-creation
// request per group, in first-seen group order. Shipping and notes are shared
// across all requests. Provisional keys pass through on the wire as a
// best-effort identifier; the upstream service owns the final say on whether
// it can route them.
func buildRequests(res *Resolution, shipping order.ShippingInfo, notes string) []order.Request {
	reqs := make([]order.Request, 0, res.GroupCount())
	for _, key := range res.Keys() {
		items := res.Group(key)
		reqItems := make([]order.RequestItem, len(items))
		for i, item := range items {
			reqItems[i] = order.RequestItem{
				ProductID:         item.ProductID,
				QuantityRequested: item.Quantity,
			}
		}
		reqs = append(reqs, order.Request{
			SupplierID: key.Wire(),
			Items:      reqItems,
			Shipping:   shipping,
			Notes:      notes,
		})
	}
	return reqs
}
