package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/cart"
)

// GetCart returns the authenticated user's cart contents.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())

	items, err := h.carts.Contents(r.Context(), userID)
	if err != nil {
		zctx.From(r.Context()).Error("Fetching cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not fetch cart")
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range items {
		encodeLineItem(&e, item)
	}
	e.ArrEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, &e)
}

// AddCartItem inserts a line item into the authenticated user's cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())

	item, err := decodeLineItem(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}
	if item.Quantity <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "quantity must be greater than 0")
		return
	}

	if err := h.carts.Add(r.Context(), userID, item); err != nil {
		zctx.From(r.Context()).Error("Adding cart item failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not add item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveCartItem deletes one product from the authenticated user's cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	productID := r.PathValue("productId")

	if err := h.carts.Remove(r.Context(), userID, productID); err != nil {
		zctx.From(r.Context()).Error("Removing cart item failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not remove item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func encodeLineItem(e *jx.Encoder, item cart.LineItem) {
	e.ObjStart()
	e.FieldStart("productId")
	e.Str(item.ProductID)
	e.FieldStart("quantity")
	e.Int(item.Quantity)
	e.FieldStart("businessName")
	e.Str(item.BusinessName)
	e.FieldStart("unitPrice")
	e.Str(item.UnitPrice.StringFixed(2))
	if item.SupplierID != "" {
		e.FieldStart("supplierId")
		e.Str(item.SupplierID)
	}
	e.ObjEnd()
}

func decodeLineItem(body io.Reader) (cart.LineItem, error) {
	var item cart.LineItem

	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return item, err
	}

	d := jx.DecodeBytes(raw)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			item.ProductID, err = d.Str()
		case "quantity":
			item.Quantity, err = d.Int()
		case "businessName":
			item.BusinessName, err = d.Str()
		case "unitPrice":
			var raw string
			raw, err = d.Str()
			if err != nil {
				return err
			}
			item.UnitPrice, err = decimal.NewFromString(raw)
		case "supplierId":
			item.SupplierID, err = d.Str()
		case "vendorId":
			item.VendorID, err = d.Str()
		case "businessId":
			item.BusinessID, err = d.Str()
		default:
			return d.Skip()
		}
		return err
	})
	return item, err
}
