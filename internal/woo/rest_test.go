package woo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woo-admin/internal/store"
)

func liveSettings(url string) store.StoreSettings {
	return store.StoreSettings{StoreURL: url, APIKey: "ck_test", APISecret: "cs_test"}
}

func newLive(t *testing.T, srv *httptest.Server, scheme AuthScheme) Connector {
	t.Helper()
	conn, err := New(liveSettings(srv.URL), Options{Auth: scheme, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return conn
}

func TestQueryAuthListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "ck_test", r.URL.Query().Get("consumer_key"))
		assert.Equal(t, "cs_test", r.URL.Query().Get("consumer_secret"))
		assert.Equal(t, "20", r.URL.Query().Get("per_page"))
		assert.Empty(t, r.Header.Get("Authorization"), "schemes must not be mixed")
		_, _ = io.WriteString(w, `[{"id":5,"name":"Mug","on_sale":true,"sale_price":"9.00"}]`)
	}))
	defer srv.Close()

	conn := newLive(t, srv, AuthQuery)
	assert.Equal(t, BackendQueryAuth, conn.Backend())

	products, err := conn.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(5), products[0].ID)
	assert.True(t, products[0].OnSale)
}

func TestHeaderAuthListOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ck_test", user)
		assert.Equal(t, "cs_test", pass)
		assert.Empty(t, r.URL.Query().Get("consumer_key"), "schemes must not be mixed")
		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":101,"status":"processing","total":"10.00","line_items":[]}]`)
	}))
	defer srv.Close()

	conn := newLive(t, srv, AuthHeader)
	assert.Equal(t, BackendHeaderAuth, conn.Backend())

	orders, err := conn.ListOrders(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, store.OrderProcessing, orders[0].Status)
}

func TestRemoteErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"woocommerce_rest_cannot_view"}`)
	}))
	defer srv.Close()

	_, err := newLive(t, srv, AuthQuery).ListProducts(context.Background(), 0)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.Status)
	assert.Contains(t, remote.Body, "woocommerce_rest_cannot_view")
	assert.NotErrorIs(t, err, ErrConnection)
}

func TestConnectionErrorOnUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	conn, err := New(liveSettings(url), Options{})
	require.NoError(t, err)
	_, err = conn.ListOrders(context.Background(), 0)

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestMissingURLIsConfigurationError(t *testing.T) {
	spy := &spyTransport{}
	conn, err := New(store.StoreSettings{APIKey: "ck", APISecret: "cs"}, Options{HTTPClient: &http.Client{Transport: spy}})
	require.NoError(t, err)

	_, err = conn.ListProducts(context.Background(), 0)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "url", cfgErr.Field)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, int32(0), spy.calls.Load())
}

func TestSaveProductCreateVersusUpdate(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		var p store.Product
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if p.ID == 0 {
			p.ID = 77
		}
		_ = json.NewEncoder(w).Encode(p)
	}))
	defer srv.Close()

	conn := newLive(t, srv, AuthQuery)
	ctx := context.Background()

	created, err := conn.SaveProduct(ctx, store.ProductPatch{Name: store.Ptr("Lamp")})
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)

	_, err = conn.SaveProduct(ctx, store.ProductPatch{ID: 77, Name: store.Ptr("Lamp v2")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /wp-json/wc/v3/products",
		"PUT /wp-json/wc/v3/products/77",
	}, methods)
}

func TestUpdateProductSendsOnlySetFields(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":5,"name":"X","sku":"KEEP-ME","status":"publish"}`)
	}))
	defer srv.Close()

	conn := newLive(t, srv, AuthHeader)
	saved, err := conn.SaveProduct(context.Background(), store.ProductPatch{
		ID: 5, Name: store.Ptr("X"), SalePrice: store.Ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "KEEP-ME", saved.SKU)

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "name", "sale_price"}, keys)
	assert.JSONEq(t, `""`, string(body["sale_price"]))
}

func TestSetOrderStatusReturnsServerOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/wp-json/wc/v3/orders/101", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		_, _ = io.WriteString(w, `{"id":101,"status":"completed","total":"99.00","date_created":"2024-06-14T10:32:00"}`)
	}))
	defer srv.Close()

	order, err := newLive(t, srv, AuthHeader).SetOrderStatus(context.Background(), 101, store.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, store.OrderCompleted, order.Status)
	assert.Equal(t, "99.00", order.Total)
}

func TestDeleteCouponForcesAndReportsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("force"))
		if r.URL.Path == "/wp-json/wc/v3/coupons/5" {
			_, _ = io.WriteString(w, `{"id":5}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"woocommerce_rest_shop_coupon_invalid_id"}`)
	}))
	defer srv.Close()

	conn := newLive(t, srv, AuthQuery)
	require.NoError(t, conn.DeleteCoupon(context.Background(), 5))
	assert.ErrorIs(t, conn.DeleteCoupon(context.Background(), 6), ErrNotFound)
}

func TestCheckConnectionEmptyKeyMakesNoRequest(t *testing.T) {
	spy := &spyTransport{}
	settings := store.StoreSettings{StoreURL: "https://shop.test", APISecret: "cs"}
	conn, err := New(settings, Options{HTTPClient: &http.Client{Transport: spy}})
	require.NoError(t, err)

	assert.False(t, conn.CheckConnection(context.Background()))
	assert.Equal(t, int32(0), spy.calls.Load())
}

func TestCheckConnectionFallsBackToProducts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/wp-json/wc/v3/system_status":
			w.WriteHeader(http.StatusForbidden)
		case "/wp-json/wc/v3/products":
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			_, _ = io.WriteString(w, `[]`)
		}
	}))
	defer srv.Close()

	assert.True(t, newLive(t, srv, AuthQuery).CheckConnection(context.Background()))
	assert.Equal(t, int32(2), hits.Load())
}

func TestCheckConnectionFalseOnRejectedKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	assert.False(t, newLive(t, srv, AuthHeader).CheckConnection(context.Background()))
}

func TestParseAuthScheme(t *testing.T) {
	s, err := ParseAuthScheme("")
	require.NoError(t, err)
	assert.Equal(t, AuthQuery, s)

	s, err = ParseAuthScheme("Basic")
	require.NoError(t, err)
	assert.Equal(t, AuthHeader, s)

	_, err = ParseAuthScheme("oauth1")
	var unsupported *UnsupportedAuthSchemeError
	assert.ErrorAs(t, err, &unsupported)
}
