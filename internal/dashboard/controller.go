// Package dashboard owns navigation state and the loaded store collections.
// Every write goes through the store connector; results are applied to local
// state in one locked step, never across I/O.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"woo-admin/internal/agent"
	"woo-admin/internal/settings"
	"woo-admin/internal/store"
	"woo-admin/internal/woo"
)

var (
	// ErrNotConfigured is returned by store operations before any settings exist.
	ErrNotConfigured = errors.New("store is not configured")
	// ErrWriteInProgress rejects a write to a resource that already has one in flight.
	ErrWriteInProgress = errors.New("a write to this resource is already in progress")
	// ErrSuperseded means the result arrived after the operator moved on; it was dropped.
	ErrSuperseded = errors.New("result superseded by a newer request")
	// ErrUnknownView is returned for view names outside the closed set.
	ErrUnknownView = errors.New("unknown view")
)

// LoadFailedMessage is shown in the error panel when the initial collections fail to load.
const LoadFailedMessage = "Could not load store data. Check your API settings or enable demo mode."

// ConnectorFactory builds the connector for a settings record.
type ConnectorFactory func(store.StoreSettings) (woo.Connector, error)

type Options struct {
	PageSize int
	Now      func() time.Time
}

// Controller is the single owner of dashboard state.
type Controller struct {
	settingsStore settings.Store
	newConnector  ConnectorFactory
	assistant     *agent.Assistant
	pageSize      int
	now           func() time.Time

	mu          sync.Mutex
	settings    *store.StoreSettings
	conn        woo.Connector
	view        View
	products    []store.Product
	orders      []store.Order
	coupons     []store.Coupon
	order       *store.Order
	loading     bool
	errMsg      string
	errDetail   string
	loadSeq     uint64
	screenSeq   uint64
	screenAbort context.CancelFunc
	writes      map[string]struct{}
}

// New creates a controller. It starts on the Settings view until Start runs.
func New(ss settings.Store, factory ConnectorFactory, assistant *agent.Assistant, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = woo.DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if assistant == nil {
		assistant = agent.NewAssistant(nil)
	}
	return &Controller{
		settingsStore: ss,
		newConnector:  factory,
		assistant:     assistant,
		pageSize:      opts.PageSize,
		now:           opts.Now,
		view:          Settings{},
		writes:        make(map[string]struct{}),
	}
}

// Start routes to onboarding when no settings are persisted, otherwise to the
// dashboard after the initial load.
func (c *Controller) Start(ctx context.Context) error {
	s, err := c.settingsStore.Load(ctx)
	if errors.Is(err, settings.ErrNotFound) {
		log.Info("No store settings persisted; starting onboarding")
		c.Navigate(Settings{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	if err := c.connect(s); err != nil {
		c.Navigate(Settings{})
		return err
	}
	c.Navigate(Dashboard{})
	return c.Reload(ctx)
}

func (c *Controller) connect(s store.StoreSettings) error {
	conn, err := c.newConnector(s)
	if err != nil {
		return fmt.Errorf("building store connector: %w", err)
	}
	c.install(s, conn)
	return nil
}

// install swaps in a connector. Loads still running against the previous one
// are superseded so their results can never land under the new settings.
func (c *Controller) install(s store.StoreSettings, conn woo.Connector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = &s
	c.conn = conn
	c.products, c.orders, c.coupons, c.order = nil, nil, nil, nil
	c.loading = false
	c.loadSeq++
	if c.screenAbort != nil {
		c.screenAbort()
		c.screenAbort = nil
	}
	c.screenSeq++
	log.Info("Store connector ready", "backend", conn.Backend(), "url", s.StoreURL)
}

// ReloadError means new settings were saved and applied but the load that
// followed failed. The error panel shows it; the settings stay in effect.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string {
	return "settings saved, but loading store data failed: " + e.Err.Error()
}

func (e *ReloadError) Unwrap() error { return e.Err }

// ApplySettings persists s, clears the error and reloads everything.
// Completing onboarding moves to the dashboard. Nothing changes when s cannot
// be turned into a connector or saved; a failed load afterwards is reported
// as a *ReloadError.
func (c *Controller) ApplySettings(ctx context.Context, s store.StoreSettings) error {
	conn, err := c.newConnector(s)
	if err != nil {
		return fmt.Errorf("building store connector: %w", err)
	}

	c.mu.Lock()
	onboarding := c.settings == nil
	c.mu.Unlock()

	if err := c.settingsStore.Save(ctx, s); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	c.install(s, conn)

	c.mu.Lock()
	c.errMsg, c.errDetail = "", ""
	if onboarding {
		c.setViewLocked(Dashboard{})
	}
	c.mu.Unlock()

	if err := c.Reload(ctx); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}

// Logout clears persisted settings and all state, returning to onboarding.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.settingsStore.Clear(ctx); err != nil {
		return fmt.Errorf("clearing settings: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings, c.conn = nil, nil
	c.products, c.orders, c.coupons, c.order = nil, nil, nil, nil
	c.errMsg, c.errDetail = "", ""
	c.loading = false
	c.loadSeq++
	c.setViewLocked(Settings{})
	return nil
}

// CheckConnection probes a candidate settings record without applying it.
func (c *Controller) CheckConnection(ctx context.Context, s store.StoreSettings) bool {
	conn, err := c.newConnector(s)
	if err != nil {
		log.Warn("Cannot build connector for check", "err", err)
		return false
	}
	return conn.CheckConnection(ctx)
}

// Reload fetches products and orders concurrently. Both must succeed before
// either collection is replaced; the first failure cancels the other.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return ErrNotConfigured
	}
	c.loadSeq++
	seq := c.loadSeq
	c.loading = true
	c.errMsg, c.errDetail = "", ""
	c.mu.Unlock()

	var products []store.Product
	var orders []store.Order
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = conn.ListProducts(gctx, c.pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = conn.ListOrders(gctx, c.pageSize)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		log.Debug("Dropping superseded reload", "seq", seq)
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		log.Error("Error loading store data", "err", err)
		c.errMsg, c.errDetail = LoadFailedMessage, err.Error()
		return err
	}
	c.products, c.orders = products, orders
	return nil
}

// Retry reloads the collections and, on the coupons screen, the coupons.
func (c *Controller) Retry(ctx context.Context) error {
	if err := c.Reload(ctx); err != nil {
		return err
	}
	if c.View().Kind() == store.ViewCoupons {
		return c.LoadCoupons(ctx)
	}
	return nil
}

// Navigate switches screens and abandons the previous screen's pending load.
func (c *Controller) Navigate(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewLocked(v)
}

// Back leaves a detail screen for its list.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewLocked(parent(c.view))
}

// NavigateTo resolves a view by name; id selects the product or order.
func (c *Controller) NavigateTo(kind store.ViewKind, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var v View
	switch kind {
	case store.ViewDashboard:
		v = Dashboard{}
	case store.ViewProducts:
		v = Products{}
	case store.ViewProductEdit:
		pe := ProductEdit{}
		if id != 0 {
			i := slices.IndexFunc(c.products, func(p store.Product) bool { return p.ID == id })
			if i < 0 {
				return fmt.Errorf("product %d: %w", id, woo.ErrNotFound)
			}
			p := c.products[i]
			pe.Product = &p
		}
		v = pe
	case store.ViewOrders:
		v = Orders{}
	case store.ViewOrderDetail:
		if id <= 0 {
			return fmt.Errorf("order detail needs an order id: %w", woo.ErrInvalid)
		}
		v = OrderDetail{OrderID: id}
	case store.ViewCoupons:
		v = Coupons{}
	case store.ViewSettings:
		v = Settings{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownView, kind)
	}
	c.setViewLocked(v)
	return nil
}

func (c *Controller) setViewLocked(v View) {
	if c.screenAbort != nil {
		c.screenAbort()
		c.screenAbort = nil
	}
	c.screenSeq++
	c.view = v
	if _, ok := v.(OrderDetail); !ok {
		c.order = nil
	}
}

// startScreenLoad scopes a load to the current screen. Navigating away or
// starting another screen load cancels it.
func (c *Controller) startScreenLoad(parent context.Context) (context.Context, uint64, woo.Connector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, 0, nil, ErrNotConfigured
	}
	if c.screenAbort != nil {
		c.screenAbort()
	}
	ctx, cancel := context.WithCancel(parent)
	c.screenAbort = cancel
	c.screenSeq++
	return ctx, c.screenSeq, c.conn, nil
}

// finishScreenLoadLocked reports whether token is still current.
func (c *Controller) finishScreenLoadLocked(token uint64) bool {
	if token != c.screenSeq {
		return false
	}
	if c.screenAbort != nil {
		c.screenAbort()
		c.screenAbort = nil
	}
	return true
}

func (c *Controller) connector() (woo.Connector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConfigured
	}
	return c.conn, nil
}

func (c *Controller) beginWrite(key string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.writes[key]; busy {
		return nil, fmt.Errorf("%s: %w", key, ErrWriteInProgress)
	}
	c.writes[key] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.writes, key)
		c.mu.Unlock()
	}, nil
}

// SaveProduct creates a product, or updates the one draft.ID names with the
// fields draft sets. On success the product replaces its tracked copy (or is
// prepended) and the view returns to Products. On failure the view stays on
// ProductEdit with the draft preserved. Only updates are guarded against
// overlap; each create is a distinct resource.
func (c *Controller) SaveProduct(ctx context.Context, draft store.ProductPatch) (*store.Product, error) {
	if draft.ID != 0 {
		release, err := c.beginWrite(fmt.Sprintf("product:%d", draft.ID))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	conn, err := c.connector()
	if err != nil {
		return nil, err
	}
	saved, err := conn.SaveProduct(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if pe, ok := c.view.(ProductEdit); ok {
			kept := draft
			pe.Draft = &kept
			c.view = pe
		}
		log.Error("Error saving product", "id", draft.ID, "err", err)
		return nil, err
	}

	if i := slices.IndexFunc(c.products, func(p store.Product) bool { return p.ID == saved.ID }); i >= 0 {
		c.products[i] = *saved
	} else {
		c.products = append([]store.Product{*saved}, c.products...)
	}
	c.setViewLocked(Products{})
	return saved, nil
}

// OpenOrder shows the detail screen for orderID and loads it.
func (c *Controller) OpenOrder(ctx context.Context, orderID int64) (*store.Order, error) {
	c.Navigate(OrderDetail{OrderID: orderID})

	ctx, token, conn, err := c.startScreenLoad(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := conn.ListOrders(ctx, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finishScreenLoadLocked(token) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	i := slices.IndexFunc(orders, func(o store.Order) bool { return o.ID == orderID })
	if i < 0 {
		c.order = nil
		return nil, fmt.Errorf("order %d: %w", orderID, woo.ErrNotFound)
	}
	found := orders[i]
	c.order = &found
	c.replaceOrderLocked(found)
	out := found
	return &out, nil
}

// SetOrderStatus moves an order to status and adopts the order the store
// returns, since a status change may alter other fields.
func (c *Controller) SetOrderStatus(ctx context.Context, orderID int64, status store.OrderStatus) (*store.Order, error) {
	release, err := c.beginWrite(fmt.Sprintf("order:%d", orderID))
	if err != nil {
		return nil, err
	}
	defer release()

	conn, err := c.connector()
	if err != nil {
		return nil, err
	}
	updated, err := conn.SetOrderStatus(ctx, orderID, status)
	if err != nil {
		log.Error("Error updating order status", "id", orderID, "status", status, "err", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceOrderLocked(*updated)
	if c.order != nil && c.order.ID == updated.ID {
		o := *updated
		c.order = &o
	}
	return updated, nil
}

func (c *Controller) replaceOrderLocked(o store.Order) {
	if i := slices.IndexFunc(c.orders, func(x store.Order) bool { return x.ID == o.ID }); i >= 0 {
		c.orders[i] = o
	}
}

// LoadCoupons fetches the coupon collection for the coupons screen.
func (c *Controller) LoadCoupons(ctx context.Context) error {
	ctx, token, conn, err := c.startScreenLoad(ctx)
	if err != nil {
		return err
	}
	coupons, err := conn.ListCoupons(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finishScreenLoadLocked(token) {
		return ErrSuperseded
	}
	if err != nil {
		log.Error("Error loading coupons", "err", err)
		c.errMsg, c.errDetail = LoadFailedMessage, err.Error()
		return err
	}
	c.coupons = coupons
	return nil
}

// CreateCoupon creates a coupon and reloads the whole collection, since the
// store computes fields such as usage counts.
func (c *Controller) CreateCoupon(ctx context.Context, coupon store.Coupon) (*store.Coupon, error) {
	release, err := c.beginWrite("coupon:code:" + strings.ToLower(strings.TrimSpace(coupon.Code)))
	if err != nil {
		return nil, err
	}
	defer release()

	conn, err := c.connector()
	if err != nil {
		return nil, err
	}
	created, err := conn.CreateCoupon(ctx, coupon)
	if err != nil {
		log.Error("Error creating coupon", "code", coupon.Code, "err", err)
		return nil, err
	}
	c.reloadCouponsAfterWrite(ctx)
	return created, nil
}

// DeleteCoupon deletes a coupon and reloads the collection. A missing coupon
// yields an error matching woo.ErrNotFound.
func (c *Controller) DeleteCoupon(ctx context.Context, couponID int64) error {
	release, err := c.beginWrite(fmt.Sprintf("coupon:%d", couponID))
	if err != nil {
		return err
	}
	defer release()

	conn, err := c.connector()
	if err != nil {
		return err
	}
	if err := conn.DeleteCoupon(ctx, couponID); err != nil {
		log.Error("Error deleting coupon", "id", couponID, "err", err)
		return err
	}
	c.reloadCouponsAfterWrite(ctx)
	return nil
}

func (c *Controller) reloadCouponsAfterWrite(ctx context.Context) {
	if err := c.LoadCoupons(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		log.Warn("Coupon reload after write failed", "err", err)
	}
}

// DescribeProduct drafts a product description. It always returns text.
func (c *Controller) DescribeProduct(ctx context.Context, name, keywords string) string {
	return c.assistant.GenerateProductDescription(ctx, name, keywords)
}

// Summary is the dashboard screen model.
type Summary struct {
	TotalSales   string             `json:"total_sales"`
	Currency     string             `json:"currency"`
	OrderCount   int                `json:"order_count"`
	ProductCount int                `json:"product_count"`
	Series       []agent.SalesPoint `json:"series"`
	Insight      string             `json:"insight"`
}

// Summary aggregates the loaded orders and asks the assistant for a comment
// on the weekly series.
func (c *Controller) Summary(ctx context.Context) Summary {
	c.mu.Lock()
	orders := slices.Clone(c.orders)
	productCount := len(c.products)
	c.mu.Unlock()

	s := Summary{
		TotalSales:   store.FormatAmount(TotalSales(orders)),
		OrderCount:   len(orders),
		ProductCount: productCount,
		Series:       WeeklySales(orders, c.now()),
	}
	if len(orders) > 0 {
		s.Currency = orders[0].Currency
	}
	s.Insight = c.assistant.GenerateSalesInsight(ctx, s.Series)
	return s
}

// State is a read-only copy of the controller state.
type State struct {
	View           store.ViewKind       `json:"view"`
	EditingProduct *store.Product       `json:"editing_product,omitempty"`
	ProductDraft   *store.ProductPatch  `json:"product_draft,omitempty"`
	OrderID        int64                `json:"order_id,omitempty"`
	Order          *store.Order         `json:"order,omitempty"`
	Settings       *store.StoreSettings `json:"settings,omitempty"`
	Backend        woo.Backend          `json:"backend,omitempty"`
	Products       []store.Product      `json:"products"`
	Orders         []store.Order        `json:"orders"`
	Coupons        []store.Coupon       `json:"coupons"`
	Loading        bool                 `json:"loading"`
	Error          string               `json:"error,omitempty"`
	ErrorDetail    string               `json:"error_detail,omitempty"`
	// Blocked is set when the error panel replaces the screen content.
	// Settings stays usable so bad credentials can be fixed.
	Blocked        bool                 `json:"blocked"`
}

// Configured reports whether store settings are in effect.
func (s State) Configured() bool {
	return s.Settings != nil
}

// View returns the active view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Snapshot copies the current state. Settings are redacted.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		View:        c.view.Kind(),
		Products:    slices.Clone(c.products),
		Orders:      slices.Clone(c.orders),
		Coupons:     slices.Clone(c.coupons),
		Loading:     c.loading,
		Error:       c.errMsg,
		ErrorDetail: c.errDetail,
	}
	st.Blocked = st.Error != "" && st.View != store.ViewSettings
	if st.Products == nil {
		st.Products = []store.Product{}
	}
	if st.Orders == nil {
		st.Orders = []store.Order{}
	}
	if st.Coupons == nil {
		st.Coupons = []store.Coupon{}
	}
	switch v := c.view.(type) {
	case ProductEdit:
		st.EditingProduct, st.ProductDraft = v.Product, v.Draft
	case OrderDetail:
		st.OrderID = v.OrderID
		if c.order != nil {
			o := *c.order
			st.Order = &o
		}
	}
	if c.settings != nil {
		r := c.settings.Redacted()
		st.Settings = &r
	}
	if c.conn != nil {
		st.Backend = c.conn.Backend()
	}
	return st
}

// Settings returns the settings in effect, unredacted.
func (c *Controller) Settings() (store.StoreSettings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings == nil {
		return store.StoreSettings{}, false
	}
	return *c.settings, true
}
