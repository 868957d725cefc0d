// Package cart defines the shopping cart contents and the store that owns
// them. The checkout core reads the cart once at entry and clears it once on
// confirmed success; everything else is owned by the store.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem is a single product entry in a user's cart. The three supplier
// identifier fields are synonyms populated inconsistently by upstream data
// sources; any of them may be empty.
type LineItem struct {
	ProductID    string
	Quantity     int
	BusinessName string
	UnitPrice    decimal.Decimal

	// Raw supplier identifier synonyms, in descending trust order.
	SupplierID string
	VendorID   string
	BusinessID string
}

// Store provides access to a user's cart contents.
type Store interface {
	// Contents returns the current cart line items for the user.
	Contents(ctx context.Context, userID string) ([]LineItem, error)
	// Add inserts a line item, summing quantities when the product is
	// already present.
	Add(ctx context.Context, userID string, item LineItem) error
	// Remove deletes the line item for the given product. Removing an
	// absent product is not an error.
	Remove(ctx context.Context, userID, productID string) error
	// Clear empties the cart. Clearing an empty cart is a no-op.
	Clear(ctx context.Context, userID string) error
}
