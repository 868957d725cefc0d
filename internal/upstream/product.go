package upstream

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/satyakarthikeya/link-local-b2b/internal/domain/catalog"
)

var _ catalog.Lookup = (*Client)(nil)

// Get fetches product details by id. A 404 from the service maps to
// catalog.ErrNotFound.
func (c *Client) Get(ctx context.Context, productID string) (*catalog.Product, error) {
	u := c.baseURL + "/api/products/" + url.PathEscape(productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build product request")
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %s", productID)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, catalog.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, decodeAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read product %s", productID)
	}

	p, err := decodeProduct(body)
	if err != nil {
		return nil, errors.Wrapf(err, "decode product %s", productID)
	}
	return p, nil
}

func decodeProduct(body []byte) (*catalog.Product, error) {
	var p catalog.Product

	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "businessName":
			p.BusinessName, err = d.Str()
		case "ownerSupplierId":
			// Null means the catalog has no attribution for this
			// product; checkout degrades it to a provisional group.
			if d.Next() == jx.Null {
				return d.Null()
			}
			p.OwnerSupplierID, err = d.Str()
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return nil, err
	}

	return &p, nil
}
