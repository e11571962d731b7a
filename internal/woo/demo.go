package woo

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"dario.cat/mergo"

	"woo-admin/internal/store"
)

// demoBackend serves deterministic fixtures from memory. It never performs
// network I/O.
type demoBackend struct {
	latency time.Duration

	mu       sync.Mutex
	products []store.Product
	orders   []store.Order
	coupons  []store.Coupon

	nextID atomic.Int64
}

func newDemoBackend(latency time.Duration) *demoBackend {
	d := &demoBackend{
		latency:  latency,
		products: seedProducts(),
		orders:   seedOrders(),
		coupons:  seedCoupons(),
	}
	d.nextID.Store(1000)
	return d
}

func (d *demoBackend) Backend() Backend { return BackendDemo }

// wait simulates a round trip while honouring cancellation.
func (d *demoBackend) wait(ctx context.Context) error {
	if d.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *demoBackend) CheckConnection(ctx context.Context) bool {
	return d.wait(ctx) == nil
}

func (d *demoBackend) ListProducts(ctx context.Context, pageSize int) ([]store.Product, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	n := min(pageSizeOrDefault(pageSize), len(d.products))
	out := make([]store.Product, 0, n)
	for _, p := range d.products[:n] {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (d *demoBackend) SaveProduct(ctx context.Context, p store.ProductPatch) (*store.Product, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	if err := checkProductPatch(p); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p.ID != 0 {
		i := slices.IndexFunc(d.products, func(x store.Product) bool { return x.ID == p.ID })
		if i < 0 {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrNotFound)
		}
		rec := cloneProduct(d.products[i])
		p.Apply(&rec)
		derivePricing(&rec)
		d.products[i] = rec
		out := cloneProduct(rec)
		return &out, nil
	}

	var draft store.Product
	p.Apply(&draft)
	rec := productTemplate()
	if err := mergo.Merge(&rec, draft, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging product draft: %w", err)
	}
	rec.ID = d.nextID.Add(1)
	if rec.Slug == "" {
		rec.Slug = slugFromName(rec.Name)
	}
	derivePricing(&rec)
	d.products = append([]store.Product{rec}, d.products...)
	out := cloneProduct(rec)
	return &out, nil
}

func (d *demoBackend) ListOrders(ctx context.Context, pageSize int) ([]store.Order, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	n := min(pageSizeOrDefault(pageSize), len(d.orders))
	out := make([]store.Order, 0, n)
	for _, o := range d.orders[:n] {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (d *demoBackend) SetOrderStatus(ctx context.Context, orderID int64, status store.OrderStatus) (*store.Order, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("unknown order status %q", status)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.orders, func(o store.Order) bool { return o.ID == orderID })
	if i < 0 {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	d.orders[i].Status = status
	out := cloneOrder(d.orders[i])
	return &out, nil
}

func (d *demoBackend) ListCoupons(ctx context.Context) ([]store.Coupon, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]store.Coupon, 0, len(d.coupons))
	for _, c := range d.coupons {
		out = append(out, cloneCoupon(c))
	}
	return out, nil
}

func (d *demoBackend) CreateCoupon(ctx context.Context, c store.Coupon) (*store.Coupon, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Code) == "" {
		return nil, invalid("coupon code is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.coupons {
		if existing.SameCode(c.Code) {
			return nil, invalid("coupon code %q already exists", c.Code)
		}
	}

	rec := cloneCoupon(c)
	rec.ID = d.nextID.Add(1)
	rec.Code = strings.ToLower(strings.TrimSpace(c.Code))
	rec.UsageCount = 0
	if rec.DiscountType == "" {
		rec.DiscountType = store.DiscountFixedCart
	}
	if rec.Amount == "" {
		rec.Amount = "0"
	}
	d.coupons = append(d.coupons, rec)
	out := cloneCoupon(rec)
	return &out, nil
}

func (d *demoBackend) DeleteCoupon(ctx context.Context, couponID int64) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.coupons, func(c store.Coupon) bool { return c.ID == couponID })
	if i < 0 {
		return fmt.Errorf("coupon %d: %w", couponID, ErrNotFound)
	}
	d.coupons = slices.Delete(d.coupons, i, i+1)
	return nil
}

func productTemplate() store.Product {
	return store.Product{
		Status:     store.ProductDraft,
		Images:     []store.Image{},
		Categories: []store.Term{},
		Tags:       []store.Term{},
		Attributes: []store.ProductAttribute{},
	}
}

// derivePricing fills the read-only price fields the store computes.
func derivePricing(p *store.Product) {
	p.OnSale = p.SalePrice != ""
	if p.OnSale {
		p.Price = p.SalePrice
	} else {
		p.Price = p.RegularPrice
	}
	if !p.ManageStock {
		p.StockQuantity = nil
	}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func slugFromName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "product"
	}
	return s
}

func cloneProduct(p store.Product) store.Product {
	out := p
	if p.StockQuantity != nil {
		q := *p.StockQuantity
		out.StockQuantity = &q
	}
	out.Images = slices.Clone(p.Images)
	out.Categories = slices.Clone(p.Categories)
	out.Tags = slices.Clone(p.Tags)
	if p.Attributes != nil {
		out.Attributes = make([]store.ProductAttribute, len(p.Attributes))
		for i, a := range p.Attributes {
			a.Options = slices.Clone(a.Options)
			out.Attributes[i] = a
		}
	}
	return out
}

func cloneOrder(o store.Order) store.Order {
	out := o
	if o.LineItems != nil {
		out.LineItems = make([]store.LineItem, len(o.LineItems))
		for i, li := range o.LineItems {
			if li.Image != nil {
				img := *li.Image
				li.Image = &img
			}
			out.LineItems[i] = li
		}
	}
	out.ShippingLines = slices.Clone(o.ShippingLines)
	return out
}

func cloneCoupon(c store.Coupon) store.Coupon {
	out := c
	if c.ExpiresAt != nil {
		v := *c.ExpiresAt
		out.ExpiresAt = &v
	}
	return out
}
