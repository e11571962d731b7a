package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woo-admin/internal/app"
	"woo-admin/internal/config"
	"woo-admin/internal/store"
)

// runner executes commands against a settings directory that persists
// between invocations, like repeated shell calls would.
type runner struct {
	t   *testing.T
	cfg config.Config
}

func newRunner(t *testing.T) *runner {
	cfg := config.Defaults()
	cfg.Settings.Dir = t.TempDir()
	cfg.Store.DemoLatency = 0
	return &runner{t: t, cfg: cfg}
}

func (r *runner) run(args ...string) (string, error) {
	r.t.Helper()
	var out bytes.Buffer
	err := Execute(context.Background(), Options{
		Out: &out,
		Build: func(ctx context.Context, _ string) (*app.App, error) {
			return app.New(ctx, r.cfg)
		},
	}, args)
	return out.String(), err
}

func (r *runner) mustRun(args ...string) string {
	r.t.Helper()
	out, err := r.run(args...)
	require.NoError(r.t, err, out)
	return out
}

func TestCommandsRequireSettings(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("settings", "show")
	assert.Contains(t, out, "No settings saved.")

	_, err := r.run("products", "list")
	assert.ErrorContains(t, err, "not configured")

	_, err = r.run("settings", "set")
	assert.Error(t, err)
}

func TestDemoSession(t *testing.T) {
	r := newRunner(t)

	out := r.mustRun("settings", "set", "--demo")
	assert.Contains(t, out, "demo backend")
	assert.Contains(t, out, "3 products, 4 orders")

	out = r.mustRun("products", "list")
	assert.Contains(t, out, "Leather Crossbody Bag")
	assert.Contains(t, out, "45.00 (sale)")

	out = r.mustRun("orders", "list")
	assert.Contains(t, out, "101")
	assert.Contains(t, out, "processing")

	out = r.mustRun("orders", "status", "103", "completed")
	assert.Contains(t, out, "Order 103 is now completed.")

	_, err := r.run("orders", "status", "103", "teleported")
	assert.Error(t, err)

	out = r.mustRun("coupons", "list")
	assert.Contains(t, out, "welcome15")

	out = r.mustRun("check")
	assert.Contains(t, out, "Connection OK.")

	r.mustRun("settings", "clear")
	out = r.mustRun("settings", "show")
	assert.Contains(t, out, "No settings saved.")
}

func TestSettingsShowMasksSecret(t *testing.T) {
	r := newRunner(t)
	path := filepath.Join(r.cfg.Settings.Dir, "woo_admin.settings.json")
	data, err := json.Marshal(store.StoreSettings{
		StoreURL: "https://shop.test", APIKey: "ck_abcdef123456", APISecret: "cs_abcdef654321", DemoMode: true,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out := r.mustRun("settings", "show")
	assert.Contains(t, out, "https://shop.test")
	assert.NotContains(t, out, "cs_abcdef654321")
	assert.Contains(t, out, "4321")
}

func TestProductSave(t *testing.T) {
	r := newRunner(t)
	r.mustRun("settings", "set", "--demo")

	out := r.mustRun("products", "save", "--name", "Wool Scarf", "--regular-price", "19.00", "--stock", "5")
	var p store.Product
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "wool-scarf", p.Slug)
	stock, ok := p.Stock()
	assert.True(t, ok)
	assert.Equal(t, 5, stock)

	out = r.mustRun("products", "save", "--id", "2", "--sale-price", "")
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Leather Crossbody Bag", p.Name, "unchanged fields survive")
	assert.False(t, p.OnSale)

	out = r.mustRun("products", "save", "--id", "1", "--name", "Renamed")
	var tee store.Product
	require.NoError(t, json.Unmarshal([]byte(out), &tee))
	assert.Equal(t, "Renamed", tee.Name)
	assert.Equal(t, "TS-CLASSIC", tee.SKU)
	assert.Equal(t, store.ProductPublished, tee.Status)
	assert.Len(t, tee.Attributes, 2)

	_, err := r.run("products", "save", "--id", "77", "--name", "x")
	assert.Error(t, err)
}

func TestCouponCreateAndDelete(t *testing.T) {
	r := newRunner(t)
	r.mustRun("settings", "set", "--demo")

	out := r.mustRun("coupons", "create", "--code", "SAVE10", "--amount", "10", "--type", "percent")
	var c store.Coupon
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "save10", c.Code)

	_, err := r.run("coupons", "delete", "999")
	assert.Error(t, err)

	_, err = r.run("coupons", "delete", "abc")
	assert.Error(t, err)

	out = r.mustRun("coupons", "delete", "201")
	assert.Contains(t, out, "Coupon 201 deleted.")
}

func TestAICommandsWithoutKey(t *testing.T) {
	r := newRunner(t)
	r.mustRun("settings", "set", "--demo")

	out := r.mustRun("ai", "describe", "Mug", "ceramic", "handmade")
	assert.Contains(t, out, "content generation unavailable")

	out = r.mustRun("ai", "insight")
	assert.Contains(t, out, "Total sales: 175.50 USD across 4 orders")
}
