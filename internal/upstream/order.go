package upstream

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/order"
)

var _ order.Service = (*Client)(nil)

// CreateBulk submits one order-creation call carrying every item destined
// for a single supplier.
func (c *Client) CreateBulk(ctx context.Context, req order.Request) (*order.Summary, error) {
	body := encodeOrderRequest(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/orders/bulk", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "create bulk order for supplier %s", req.SupplierID)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read order response")
	}

	sum, err := decodeOrderSummary(respBody)
	if err != nil {
		return nil, errors.Wrap(err, "decode order response")
	}
	return sum, nil
}

func encodeOrderRequest(req order.Request) []byte {
	var e jx.Encoder
	e.ObjStart()

	e.FieldStart("supplierId")
	e.Str(req.SupplierID)

	e.FieldStart("items")
	e.ArrStart()
	for _, item := range req.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(item.ProductID)
		e.FieldStart("quantityRequested")
		e.Int(item.QuantityRequested)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("shippingInfo")
	e.ObjStart()
	e.FieldStart("recipientName")
	e.Str(req.Shipping.RecipientName)
	e.FieldStart("phone")
	e.Str(req.Shipping.Phone)
	e.FieldStart("addressLine")
	e.Str(req.Shipping.AddressLine)
	e.FieldStart("city")
	e.Str(req.Shipping.City)
	e.FieldStart("postalCode")
	e.Str(req.Shipping.PostalCode)
	e.ObjEnd()

	if req.Notes != "" {
		e.FieldStart("notes")
		e.Str(req.Notes)
	}

	e.ObjEnd()
	return e.Bytes()
}

func decodeOrderSummary(body []byte) (*order.Summary, error) {
	var sum order.Summary

	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "orderId":
			sum.OrderID, err = d.Str()
		case "supplierId":
			sum.SupplierID, err = d.Str()
		case "itemCount":
			sum.ItemCount, err = d.Int()
		case "total":
			var raw string
			raw, err = d.Str()
			if err != nil {
				return err
			}
			sum.Total, err = decimal.NewFromString(raw)
		case "status":
			sum.Status, err = d.Str()
		case "createdAt":
			var raw string
			raw, err = d.Str()
			if err != nil {
				return err
			}
			sum.CreatedAt, err = time.Parse(time.RFC3339, raw)
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return nil, err
	}

	return &sum, nil
}
