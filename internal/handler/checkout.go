package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/checkout"
	"github.com/satyakarthikeya/link-local-b2b/internal/domain/order"
)

// Checkout turns the authenticated user's cart into one order per supplier.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())

	shipping, notes, err := decodeCheckoutRequest(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkout.Checkout(r.Context(), checkout.Request{
		UserID:   userID,
		Shipping: shipping,
		Notes:    notes,
	})
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("orders")
	e.ArrStart()
	for _, sum := range result.Orders {
		encodeSummary(&e, sum)
	}
	e.ArrEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusCreated, &e)
}

// writeCheckoutError maps checkout errors to HTTP responses. A submission
// failure may leave sibling orders created upstream; the message says so
// because the client has no other way to learn it.
func writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, checkout.ErrNoResolvableSupplier):
		writeError(w, http.StatusUnprocessableEntity, "no cart item could be attributed to a supplier")
	default:
		var subErr *checkout.SubmissionError
		if errors.As(err, &subErr) {
			writeError(w, http.StatusBadGateway,
				"checkout failed: "+subErr.Error()+"; your cart was kept and some orders may already have been placed")
			return
		}
		zctx.From(r.Context()).Error("Checkout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "checkout failed")
	}
}

func decodeCheckoutRequest(body io.Reader) (order.ShippingInfo, string, error) {
	var (
		shipping order.ShippingInfo
		notes    string
	)

	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return shipping, "", err
	}

	d := jx.DecodeBytes(raw)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "shippingInfo":
			return d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "recipientName":
					shipping.RecipientName, err = d.Str()
				case "phone":
					shipping.Phone, err = d.Str()
				case "addressLine":
					shipping.AddressLine, err = d.Str()
				case "city":
					shipping.City, err = d.Str()
				case "postalCode":
					shipping.PostalCode, err = d.Str()
				default:
					return d.Skip()
				}
				return err
			})
		case "notes":
			var err error
			notes, err = d.Str()
			return err
		default:
			return d.Skip()
		}
	})
	return shipping, notes, err
}

func encodeSummary(e *jx.Encoder, sum order.Summary) {
	e.ObjStart()
	e.FieldStart("orderId")
	e.Str(sum.OrderID)
	e.FieldStart("supplierId")
	e.Str(sum.SupplierID)
	e.FieldStart("itemCount")
	e.Int(sum.ItemCount)
	e.FieldStart("total")
	e.Str(sum.Total.StringFixed(2))
	e.FieldStart("status")
	e.Str(sum.Status)
	e.FieldStart("createdAt")
	e.Str(sum.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
