package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/catalog"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/order"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Token: "svc-token"})
}

func TestGet_DecodesProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products/p42", r.URL.Path)
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "p42",
			"name": "Masala Tin",
			"businessName": "Ravi Traders",
			"ownerSupplierId": "s-7",
			"price": 129.5
		}`))
	})

	p, err := client.Get(context.Background(), "p42")

	require.NoError(t, err)
	assert.Equal(t, "p42", p.ID)
	assert.Equal(t, "Masala Tin", p.Name)
	assert.Equal(t, "Ravi Traders", p.BusinessName)
	assert.Equal(t, "s-7", p.OwnerSupplierID)
}

func TestGet_NullOwner(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "p1", "ownerSupplierId": null}`))
	})

	p, err := client.Get(context.Background(), "p1")

	require.NoError(t, err)
	assert.Empty(t, p.OwnerSupplierID)
}

func TestGet_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code": 404, "message": "no such product"}`, http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), "missing")

	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestGet_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code": 500, "message": "boom"}`))
	})

	_, err := client.Get(context.Background(), "p1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestCreateBulk_EncodesRequest(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/bulk", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"orderId": "ord-1",
			"supplierId": "s-7",
			"itemCount": 2,
			"total": "310.00",
			"status": "pending",
			"createdAt": "2025-06-01T10:30:00Z"
		}`))
	})

	sum, err := client.CreateBulk(context.Background(), order.Request{
		SupplierID: "s-7",
		Items: []order.RequestItem{
			{ProductID: "p1", QuantityRequested: 2},
			{ProductID: "p2", QuantityRequested: 1},
		},
		Shipping: order.ShippingInfo{
			RecipientName: "Asha",
			AddressLine:   "12 Market Rd",
			City:          "Mysuru",
			PostalCode:    "570001",
		},
		Notes: "call on arrival",
	})

	require.NoError(t, err)
	assert.Equal(t, "s-7", got["supplierId"])
	assert.Equal(t, "call on arrival", got["notes"])
	items, ok := got["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", first["productId"])
	assert.Equal(t, float64(2), first["quantityRequested"])
	shipping, ok := got["shippingInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Mysuru", shipping["city"])

	assert.Equal(t, "ord-1", sum.OrderID)
	assert.Equal(t, 2, sum.ItemCount)
	assert.Equal(t, "310", sum.Total.String())
	assert.Equal(t, "pending", sum.Status)
	assert.Equal(t, 2025, sum.CreatedAt.Year())
}

func TestCreateBulk_StructuredError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code": 422, "message": "supplier not found"}`))
	})

	_, err := client.CreateBulk(context.Background(), order.Request{SupplierID: "product:p9"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Code)
	assert.Equal(t, "supplier not found", apiErr.Message)
}
