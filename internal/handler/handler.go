// Package handler exposes the cart and checkout HTTP API.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/checkout"
)

// Handler serves the cart and checkout endpoints. All routes require an
// authenticated API key; the Authenticator middleware supplies the user
// identity in the request context.
type Handler struct {
	carts    cart.Store
	checkout *checkout.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(carts cart.Store, checkoutSvc *checkout.Service) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkoutSvc,
	}
}

// Routes registers all API routes on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.RemoveCartItem)
	mux.HandleFunc("POST /api/checkout", h.Checkout)
}

// writeJSON writes the encoder contents with the given status code.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {"code", "message"} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, &e)
}
