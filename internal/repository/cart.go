package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
)

const (
	cartContentsSQL = `SELECT product_id, quantity, business_name, unit_price,
			COALESCE(supplier_id, ''), COALESCE(vendor_id, ''), COALESCE(business_id, '')
		FROM cart_items WHERE user_id = $1 ORDER BY added_at, product_id`

	cartAddSQL = `INSERT INTO cart_items
			(user_id, product_id, quantity, business_name, unit_price, supplier_id, vendor_id, business_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''))
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	cartRemoveSQL = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	cartClearSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

var _ cart.Store = (*CartStore)(nil)

// CartStore implements cart.Store backed by PostgreSQL.
type CartStore struct {
	pool *pgxpool.Pool
}

// NewCartStore returns a CartStore that uses the given pool.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// Contents returns the user's cart line items in insertion order.
func (s *CartStore) Contents(ctx context.Context, userID string) ([]cart.LineItem, error) {
	rows, err := s.pool.Query(ctx, cartContentsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching cart for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanLineItem)
}

// Add inserts a line item, summing quantities when the product is already in
// the cart.
func (s *CartStore) Add(ctx context.Context, userID string, item cart.LineItem) error {
	_, err := s.pool.Exec(ctx, cartAddSQL,
		userID, item.ProductID, item.Quantity, item.BusinessName, item.UnitPrice,
		item.SupplierID, item.VendorID, item.BusinessID,
	)
	if err != nil {
		return fmt.Errorf("adding product %q to cart: %w", item.ProductID, err)
	}
	return nil
}

// Remove deletes the line item for the given product. Removing an absent
// product is not an error.
func (s *CartStore) Remove(ctx context.Context, userID, productID string) error {
	_, err := s.pool.Exec(ctx, cartRemoveSQL, userID, productID)
	if err != nil {
		return fmt.Errorf("removing product %q from cart: %w", productID, err)
	}
	return nil
}

// Clear empties the user's cart. Idempotent.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, cartClearSQL, userID)
	if err != nil {
		return fmt.Errorf("clearing cart for user %q: %w", userID, err)
	}
	return nil
}

func scanLineItem(row pgx.CollectableRow) (cart.LineItem, error) {
	var item cart.LineItem
	err := row.Scan(
		&item.ProductID, &item.Quantity, &item.BusinessName, &item.UnitPrice,
		&item.SupplierID, &item.VendorID, &item.BusinessID,
	)
	return item, err
}
