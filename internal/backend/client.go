// Package backend is the typed client of the commerce REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxBodySize = 4 << 20

// Client talks to the REST backend. One service per resource hangs off it.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	Clients    *ClientService
	Products   *ProductService
	Suppliers  *SupplierService
	Orders     *OrderService
	Deliveries *DeliveryService
	Payments   *PaymentService
	Carriers   *CarrierService
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.Clients = &ClientService{c: c}
	c.Products = &ProductService{c: c}
	c.Suppliers = &SupplierService{c: c}
	c.Orders = &OrderService{c: c}
	c.Deliveries = &DeliveryService{c: c}
	c.Payments = &PaymentService{c: c}
	c.Carriers = &CarrierService{c: c}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response. A 204 or an empty 2xx body
// leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, method, path, err)
	}
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw)
		c.log.Info().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("backend error")
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// ErrInvalidResponse is returned when a 2xx body is not valid JSON.
var ErrInvalidResponse = errors.New("réponse invalide du serveur")

func idPath(resource string, id int64) string {
	return fmt.Sprintf("/%s/%d", resource, id)
}

func dateParam(t time.Time) string { return t.Format("2006-01-02T15:04:05") }

// crud groups the five calls common to every resource.
type crud[T any] struct {
	c        *Client
	resource string
}

func (r crud[T]) list(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.get(ctx, "/"+r.resource, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r crud[T]) listAt(ctx context.Context, path string, q url.Values) ([]T, error) {
	var out []T
	if err := r.c.get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r crud[T]) getByID(ctx context.Context, id int64) (*T, error) {
	var out T
	if err := r.c.get(ctx, idPath(r.resource, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r crud[T]) create(ctx context.Context, payload any) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPost, "/"+r.resource, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r crud[T]) update(ctx context.Context, id int64, payload any) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPut, idPath(r.resource, id), nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r crud[T]) remove(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, idPath(r.resource, id), nil, nil, nil)
}

func (r crud[T]) patch(ctx context.Context, id int64, sub string, q url.Values) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPatch, idPath(r.resource, id)+"/"+sub, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r crud[T]) search(ctx context.Context, nom string) ([]T, error) {
	return r.listAt(ctx, "/"+r.resource+"/search", url.Values{"nom": {nom}})
}
