// Package order defines the bulk order-creation contract of the remote
// marketplace service.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ShippingInfo is the delivery destination shared by every order produced
// from a single checkout. The orchestrator treats it as opaque.
type ShippingInfo struct {
	RecipientName string
	Phone         string
	AddressLine   string
	City          string
	PostalCode    string
}

// RequestItem is one product line inside a bulk order request.
type RequestItem struct {
	ProductID         string
	QuantityRequested int
}

// Request is a single order-creation call carrying every item destined for
// one supplier. It is constructed once per supplier group and never mutated
// afterwards.
type Request struct {
	SupplierID string
	Items      []RequestItem
	Shipping   ShippingInfo
	Notes      string
}

// Summary is the created-order record returned by the remote service.
type Summary struct {
	OrderID    string
	SupplierID string
	ItemCount  int
	Total      decimal.Decimal
	Status     string
	CreatedAt  time.Time
}

// Service is the authenticated order-creation endpoint.
type Service interface {
	CreateBulk(ctx context.Context, req Request) (*Summary, error)
}
