package checkout

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors reported before any order submission is attempted.
var (
	// ErrEmptyCart means the cart had no items; no network calls were made.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoResolvableSupplier means every cart item was excluded during
	// supplier resolution. The provisional-key fallback makes this nearly
	// impossible, but it is guarded rather than assumed away.
	ErrNoResolvableSupplier = errors.New("no cart item could be attributed to a supplier")
)

// SubmissionError reports a failed order submission for one supplier group.
// Sibling orders that already succeeded are NOT rolled back; the cart is
// retained so the user can retry, which will resubmit every group.
type SubmissionError struct {
	SupplierID string
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission for supplier %s failed: %v", e.SupplierID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
