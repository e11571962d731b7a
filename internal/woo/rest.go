package woo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"woo-admin/internal/store"
)

type authenticator interface {
	apply(req *http.Request)
}

type queryAuth struct {
	key, secret string
}

func (a queryAuth) apply(req *http.Request) {
	q := req.URL.Query()
	q.Set("consumer_key", a.key)
	q.Set("consumer_secret", a.secret)
	req.URL.RawQuery = q.Encode()
}

type headerAuth struct {
	key, secret string
}

func (a headerAuth) apply(req *http.Request) {
	req.SetBasicAuth(a.key, a.secret)
}

// restBackend talks to a live store over the WooCommerce REST API.
type restBackend struct {
	settings   store.StoreSettings
	baseURL    string
	auth       authenticator
	httpClient *http.Client
}

func newRESTBackend(settings store.StoreSettings, auth authenticator, client *http.Client) *restBackend {
	return &restBackend{
		settings:   settings,
		baseURL:    NormalizeBaseURL(settings.StoreURL),
		auth:       auth,
		httpClient: client,
	}
}

func (b *restBackend) Backend() Backend {
	if _, ok := b.auth.(headerAuth); ok {
		return BackendHeaderAuth
	}
	return BackendQueryAuth
}

// ready rejects incomplete settings before anything touches the network.
func (b *restBackend) ready() error {
	switch {
	case strings.TrimSpace(b.settings.StoreURL) == "":
		return &ConfigurationError{Field: "url"}
	case strings.TrimSpace(b.settings.APIKey) == "":
		return &ConfigurationError{Field: "consumer key"}
	case strings.TrimSpace(b.settings.APISecret) == "":
		return &ConfigurationError{Field: "consumer secret"}
	}
	return nil
}

func (b *restBackend) CheckConnection(ctx context.Context) bool {
	if b.ready() != nil {
		return false
	}

	err := b.get(ctx, "/system_status", nil, nil)
	if err == nil {
		return true
	}

	// Some hosts block system_status; a one-product listing proves the keys too.
	var remote *RemoteError
	if !errors.As(err, &remote) {
		log.Warn("Store connection check failed", "url", b.baseURL, "err", err)
		return false
	}
	err = b.get(ctx, "/products", url.Values{"per_page": {"1"}}, nil)
	if err != nil {
		log.Warn("Store connection check failed", "url", b.baseURL, "err", err)
		return false
	}
	return true
}

func (b *restBackend) ListProducts(ctx context.Context, pageSize int) ([]store.Product, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	var products []store.Product
	q := url.Values{"per_page": {strconv.Itoa(pageSizeOrDefault(pageSize))}}
	if err := b.get(ctx, "/products", q, &products); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	for i, p := range products {
		if p.ID == 0 {
			return nil, fmt.Errorf("listing products: record %d has no id", i)
		}
	}
	return products, nil
}

func (b *restBackend) SaveProduct(ctx context.Context, p store.ProductPatch) (*store.Product, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	if err := checkProductPatch(p); err != nil {
		return nil, err
	}

	var saved store.Product
	var err error
	if p.ID != 0 {
		err = b.send(ctx, http.MethodPut, fmt.Sprintf("/products/%d", p.ID), nil, p, &saved)
	} else {
		err = b.send(ctx, http.MethodPost, "/products", nil, p, &saved)
	}
	if err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}
	return &saved, nil
}

func (b *restBackend) ListOrders(ctx context.Context, pageSize int) ([]store.Order, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	var orders []store.Order
	q := url.Values{"per_page": {strconv.Itoa(pageSizeOrDefault(pageSize))}}
	if err := b.get(ctx, "/orders", q, &orders); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (b *restBackend) SetOrderStatus(ctx context.Context, orderID int64, status store.OrderStatus) (*store.Order, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("unknown order status %q", status)
	}
	var order store.Order
	body := map[string]store.OrderStatus{"status": status}
	if err := b.send(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), nil, body, &order); err != nil {
		return nil, fmt.Errorf("updating order %d: %w", orderID, err)
	}
	return &order, nil
}

func (b *restBackend) ListCoupons(ctx context.Context) ([]store.Coupon, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	var coupons []store.Coupon
	q := url.Values{"per_page": {strconv.Itoa(DefaultPageSize)}}
	if err := b.get(ctx, "/coupons", q, &coupons); err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return coupons, nil
}

func (b *restBackend) CreateCoupon(ctx context.Context, c store.Coupon) (*store.Coupon, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Code) == "" {
		return nil, invalid("coupon code is required")
	}
	var created store.Coupon
	if err := b.send(ctx, http.MethodPost, "/coupons", nil, c, &created); err != nil {
		return nil, fmt.Errorf("creating coupon %q: %w", c.Code, err)
	}
	return &created, nil
}

func (b *restBackend) DeleteCoupon(ctx context.Context, couponID int64) error {
	if err := b.ready(); err != nil {
		return err
	}
	q := url.Values{"force": {"true"}}
	if err := b.send(ctx, http.MethodDelete, fmt.Sprintf("/coupons/%d", couponID), q, nil, nil); err != nil {
		return fmt.Errorf("deleting coupon %d: %w", couponID, err)
	}
	return nil
}

func (b *restBackend) get(ctx context.Context, path string, query url.Values, result any) error {
	return b.send(ctx, http.MethodGet, path, query, nil, result)
}

func (b *restBackend) send(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := b.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	b.auth.apply(req)

	return b.do(req, method+" "+path, result)
}

func (b *restBackend) do(req *http.Request, op string, result any) error {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug("Store API rejected request", "op", op, "status", resp.StatusCode)
		return &RemoteError{Status: resp.StatusCode, Body: string(body)}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}
	return nil
}
