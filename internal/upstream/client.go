// Package upstream implements the HTTP client for the remote marketplace
// service: product detail lookups and authenticated bulk order creation.
package upstream

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config holds the upstream connection settings.
type Config struct {
	// BaseURL is the marketplace service root, e.g. https://api.example.com.
	BaseURL string
	// Token is the service credential sent as a Bearer token.
	Token string
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
}

// Client talks to the remote marketplace service. It satisfies both
// catalog.Lookup and order.Service.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient creates a Client with an OpenTelemetry-instrumented transport.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
	}
}

// do sends req with auth headers and returns the response. Callers own the
// body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	return resp, nil
}

// APIError is a structured error response from the marketplace service.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("upstream: status %d", e.StatusCode)
}

// decodeAPIError reads an error body of the form {"code": n, "message": s}.
// Bodies that do not parse still yield an APIError with the status code.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	d := jx.DecodeBytes(body)
	_ = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "code":
			code, err := d.Int()
			if err != nil {
				return err
			}
			apiErr.Code = code
		case "message":
			msg, err := d.Str()
			if err != nil {
				return err
			}
			apiErr.Message = msg
		default:
			return d.Skip()
		}
		return nil
	})

	return apiErr
}
