package checkout

import (
	"testing"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/supplier"
)

func item(productID, businessName string, qty int) cart.LineItem {
	return cart.LineItem{ProductID: productID, BusinessName: businessName, Quantity: qty}
}

func TestResolve_DirectIdentifierPriority(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: "p1", Quantity: 1, SupplierID: "s-a", VendorID: "s-b", BusinessID: "s-c"},
		{ProductID: "p2", Quantity: 1, VendorID: "s-b", BusinessID: "s-c"},
		{ProductID: "p3", Quantity: 1, BusinessID: "s-c"},
	}

	res := Resolve(items, nil)

	require.Equal(t, 3, res.GroupCount())
	assert.Len(t, res.Group(supplier.Confirmed("s-a")), 1)
	assert.Len(t, res.Group(supplier.Confirmed("s-b")), 1)
	assert.Len(t, res.Group(supplier.Confirmed("s-c")), 1)
	assert.Empty(t, res.Deferred())
	assert.Empty(t, res.Excluded())
}

func TestResolve_BorrowsIdentifierFromSibling(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: "p1", BusinessName: "Ravi Traders", Quantity: 2, SupplierID: "s-ravi"},
		{ProductID: "p2", BusinessName: "Ravi Traders", Quantity: 1},
	}

	res := Resolve(items, nil)

	require.Equal(t, 1, res.GroupCount())
	assert.Len(t, res.Group(supplier.Confirmed("s-ravi")), 2)
	assert.Empty(t, res.Deferred())
}

func TestResolve_BorrowOrderIndependent(t *testing.T) {
	// The identifier carrier appears after the bare item in cart order.
	items := []cart.LineItem{
		{ProductID: "p2", BusinessName: "Ravi Traders", Quantity: 1},
		{ProductID: "p1", BusinessName: "Ravi Traders", Quantity: 2, SupplierID: "s-ravi"},
	}

	res := Resolve(items, nil)

	require.Equal(t, 1, res.GroupCount())
	assert.Len(t, res.Group(supplier.Confirmed("s-ravi")), 2)
}

func TestResolve_DefersUnmatchedItems(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: "p1", BusinessName: "Alpha", Quantity: 1, SupplierID: "s-1"},
		{ProductID: "p2", BusinessName: "Beta", Quantity: 3},
	}

	res := Resolve(items, nil)

	require.Equal(t, 1, res.GroupCount())
	require.Len(t, res.Deferred(), 1)
	assert.Equal(t, "p2", res.Deferred()[0].ProductID)
}

func TestResolve_EmptyBusinessNameNeverBorrows(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: "p1", Quantity: 1, SupplierID: "s-1"},
		{ProductID: "p2", Quantity: 1},
	}

	res := Resolve(items, nil)

	require.Len(t, res.Deferred(), 1)
	assert.Equal(t, "p2", res.Deferred()[0].ProductID)
}

func TestResolve_ExcludesKeylessItems(t *testing.T) {
	items := []cart.LineItem{
		{BusinessName: "Ghost Corp", Quantity: 1},
		item("p1", "Alpha", 1),
	}

	res := Resolve(items, nil)

	require.Len(t, res.Excluded(), 1)
	assert.Equal(t, "Ghost Corp", res.Excluded()[0].BusinessName)
	assert.Len(t, res.Deferred(), 1)
}

func TestResolve_EveryItemLandsInExactlyOneBucket(t *testing.T) {
	items := []cart.LineItem{
		{ProductID: "p1", BusinessName: "A", Quantity: 1, SupplierID: "s-1"},
		{ProductID: "p2", BusinessName: "A", Quantity: 2},
		{ProductID: "p3", BusinessName: "B", Quantity: 1},
		{BusinessName: "C", Quantity: 1},
	}

	res := Resolve(items, nil)

	grouped := 0
	for _, key := range res.Keys() {
		grouped += len(res.Group(key))
	}
	assert.Equal(t, len(items), grouped+len(res.Deferred())+len(res.Excluded()))
}

func TestResolve_DirectoryRejectsUnknownIdentifier(t *testing.T) {
	filter := bloom.NewWithEstimates(100, 0.001)
	filter.AddString("s-known")
	dir := supplier.NewDirectory(filter)

	items := []cart.LineItem{
		{ProductID: "p1", Quantity: 1, SupplierID: "s-known"},
		{ProductID: "p2", Quantity: 1, SupplierID: "s-bogus"},
		// Unknown primary id, known secondary id: the lower-priority
		// field wins once the directory vetoes the first.
		{ProductID: "p3", Quantity: 1, SupplierID: "s-bogus", VendorID: "s-known"},
	}

	res := Resolve(items, dir)

	require.Equal(t, 1, res.GroupCount())
	assert.Len(t, res.Group(supplier.Confirmed("s-known")), 2)
	require.Len(t, res.Deferred(), 1)
	assert.Equal(t, "p2", res.Deferred()[0].ProductID)
}
