// Package woo is the store connector: one CRUD surface over the WooCommerce
// REST API, backed either by live HTTP calls or by in-memory demo fixtures.
package woo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"woo-admin/internal/store"
)

// DefaultPageSize is the fixed listing page size.
const DefaultPageSize = 20

// Connector defines every store operation the dashboard needs.
// Create and delete are not safe to retry; everything else is.
type Connector interface {
	Backend() Backend

	// CheckConnection never fails; any problem yields false.
	CheckConnection(ctx context.Context) bool

	ListProducts(ctx context.Context, pageSize int) ([]store.Product, error)
	// SaveProduct updates the product p.ID names, changing only the fields p
	// sets, or creates one when p.ID is zero.
	SaveProduct(ctx context.Context, p store.ProductPatch) (*store.Product, error)

	ListOrders(ctx context.Context, pageSize int) ([]store.Order, error)
	SetOrderStatus(ctx context.Context, orderID int64, status store.OrderStatus) (*store.Order, error)

	ListCoupons(ctx context.Context) ([]store.Coupon, error)
	CreateCoupon(ctx context.Context, c store.Coupon) (*store.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID int64) error
}

// checkProductPatch rejects a create without a name and any save that blanks it.
func checkProductPatch(p store.ProductPatch) error {
	if p.Name == nil {
		if p.ID == 0 {
			return invalid("product name is required")
		}
		return nil
	}
	if strings.TrimSpace(*p.Name) == "" {
		return invalid("product name is required")
	}
	return nil
}

// Backend identifies the strategy a connector was built with.
type Backend string

const (
	BackendDemo       Backend = "demo"
	BackendQueryAuth  Backend = "query"
	BackendHeaderAuth Backend = "header"
)

// AuthScheme selects how live requests carry credentials. One scheme is used
// per deployment.
type AuthScheme string

const (
	// AuthQuery sends consumer_key and consumer_secret as query parameters.
	AuthQuery AuthScheme = "query"
	// AuthHeader sends an Authorization: Basic header.
	AuthHeader AuthScheme = "header"
)

// ParseAuthScheme accepts the config spellings of an auth scheme.
func ParseAuthScheme(v string) (AuthScheme, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "query", "querystring", "query-string":
		return AuthQuery, nil
	case "header", "basic", "basic-auth":
		return AuthHeader, nil
	default:
		return "", &UnsupportedAuthSchemeError{Scheme: v}
	}
}

// UnsupportedAuthSchemeError is returned for unknown auth scheme names.
type UnsupportedAuthSchemeError struct {
	Scheme string
}

func (e *UnsupportedAuthSchemeError) Error() string {
	return fmt.Sprintf("unsupported auth scheme: %q", e.Scheme)
}

// Options configures connector construction. The zero value is usable.
type Options struct {
	Auth       AuthScheme
	HTTPClient *http.Client
	Timeout    time.Duration
	// Latency is the simulated round trip of the demo backend.
	Latency time.Duration
}

// New builds the connector for settings. Demo mode wins over credentials.
func New(settings store.StoreSettings, opts Options) (Connector, error) {
	if settings.DemoMode {
		return newDemoBackend(opts.Latency), nil
	}

	auth := opts.Auth
	if auth == "" {
		auth = AuthQuery
	}
	var a authenticator
	switch auth {
	case AuthQuery:
		a = queryAuth{key: settings.APIKey, secret: settings.APISecret}
	case AuthHeader:
		a = headerAuth{key: settings.APIKey, secret: settings.APISecret}
	default:
		return nil, &UnsupportedAuthSchemeError{Scheme: string(auth)}
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return newRESTBackend(settings, a, client), nil
}

// Factory returns a constructor bound to opts, the shape the dashboard
// controller expects.
func Factory(opts Options) func(store.StoreSettings) (Connector, error) {
	return func(s store.StoreSettings) (Connector, error) {
		return New(s, opts)
	}
}

func pageSizeOrDefault(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	return n
}
