// Package catalog exposes the remote product catalog, of which checkout only
// needs the owning-supplier attribution.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when the catalog has no entry for a product id.
var ErrNotFound = errors.New("product not found")

// Product is the catalog detail record for a single product.
type Product struct {
	ID              string
	Name            string
	BusinessName    string
	OwnerSupplierID string
}

// Lookup fetches product details from the remote catalog.
type Lookup interface {
	Get(ctx context.Context, productID string) (*Product, error)
}
