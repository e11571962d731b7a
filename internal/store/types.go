package store

import (
	"slices"
	"strconv"
	"strings"
)

// Resource shapes mirror the WooCommerce REST v3 payloads so the same types
// decode API responses and serve the dashboard.

type ProductStatus string

const (
	ProductPublished ProductStatus = "publish"
	ProductDraft     ProductStatus = "draft"
	ProductPrivate   ProductStatus = "private"
)

type ProductAttribute struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
}

type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type Image struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a store catalog entry. ID is zero until the backend assigns one.
type Product struct {
	ID               int64              `json:"id,omitempty"`
	Name             string             `json:"name"`
	Slug             string             `json:"slug,omitempty"`
	Status           ProductStatus      `json:"status,omitempty"`
	Description      string             `json:"description"`
	ShortDescription string             `json:"short_description"`
	SKU              string             `json:"sku"`
	Price            string             `json:"price,omitempty"`
	RegularPrice     string             `json:"regular_price"`
	SalePrice        string             `json:"sale_price"`
	OnSale           bool               `json:"on_sale"`
	StockQuantity    *int               `json:"stock_quantity"`
	ManageStock      bool               `json:"manage_stock"`
	Weight           string             `json:"weight"`
	Dimensions       Dimensions         `json:"dimensions"`
	Images           []Image            `json:"images"`
	Categories       []Term             `json:"categories"`
	Tags             []Term             `json:"tags"`
	Attributes       []ProductAttribute `json:"attributes"`
}

// Stock returns the stock quantity when the product manages stock.
func (p Product) Stock() (int, bool) {
	if !p.ManageStock || p.StockQuantity == nil {
		return 0, false
	}
	return *p.StockQuantity, true
}

// ProductPatch is a partial product as sent to a save. A nil field is left as
// the store has it; a set field replaces the stored value, even when empty, so
// `"sale_price": ""` ends a sale. ID selects the product to update; zero creates.
// Lists are pointers so `[]` can clear them while an absent key keeps them.
type ProductPatch struct {
	ID               int64               `json:"id,omitempty"`
	Name             *string             `json:"name,omitempty"`
	Status           *ProductStatus      `json:"status,omitempty" binding:"omitempty,oneof=publish draft private"`
	Description      *string             `json:"description,omitempty"`
	ShortDescription *string             `json:"short_description,omitempty"`
	SKU              *string             `json:"sku,omitempty"`
	RegularPrice     *string             `json:"regular_price,omitempty"`
	SalePrice        *string             `json:"sale_price,omitempty"`
	StockQuantity    *int                `json:"stock_quantity,omitempty"`
	ManageStock      *bool               `json:"manage_stock,omitempty"`
	Weight           *string             `json:"weight,omitempty"`
	Dimensions       *Dimensions         `json:"dimensions,omitempty"`
	Images           *[]Image            `json:"images,omitempty"`
	Categories       *[]Term             `json:"categories,omitempty"`
	Tags             *[]Term             `json:"tags,omitempty"`
	Attributes       *[]ProductAttribute `json:"attributes,omitempty"`
}

// Ptr returns a pointer to v, for filling patch fields.
func Ptr[T any](v T) *T { return &v }

func setField[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setList[T any](dst *[]T, v *[]T) {
	if v != nil {
		*dst = slices.Clone(*v)
		if *dst == nil {
			*dst = []T{}
		}
	}
}

// Apply writes the set fields over dst. ID and the fields the store derives
// (slug, price, on_sale) are not touched.
func (p ProductPatch) Apply(dst *Product) {
	setField(&dst.Name, p.Name)
	setField(&dst.Status, p.Status)
	setField(&dst.Description, p.Description)
	setField(&dst.ShortDescription, p.ShortDescription)
	setField(&dst.SKU, p.SKU)
	setField(&dst.RegularPrice, p.RegularPrice)
	setField(&dst.SalePrice, p.SalePrice)
	if p.StockQuantity != nil {
		dst.StockQuantity = Ptr(*p.StockQuantity)
	}
	setField(&dst.ManageStock, p.ManageStock)
	setField(&dst.Weight, p.Weight)
	setField(&dst.Dimensions, p.Dimensions)
	setList(&dst.Images, p.Images)
	setList(&dst.Categories, p.Categories)
	setList(&dst.Tags, p.Tags)
	if p.Attributes != nil {
		attrs := make([]ProductAttribute, len(*p.Attributes))
		for i, a := range *p.Attributes {
			a.Options = slices.Clone(a.Options)
			attrs[i] = a
		}
		dst.Attributes = attrs
	}
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderOnHold     OrderStatus = "on-hold"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
	OrderFailed     OrderStatus = "failed"
)

var orderStatuses = []OrderStatus{
	OrderPending, OrderProcessing, OrderOnHold, OrderCompleted,
	OrderCancelled, OrderRefunded, OrderFailed,
}

// OrderStatuses lists every status an order can be moved to.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Counted reports whether orders in this status contribute to sales figures.
func (s OrderStatus) Counted() bool {
	switch s {
	case OrderCancelled, OrderRefunded, OrderFailed:
		return false
	}
	return true
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type LineItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
	LineTotal string  `json:"total"`
	SKU       string  `json:"sku,omitempty"`
	Image     *Image  `json:"image,omitempty"`
}

func (li LineItem) ImageURL() string {
	if li.Image == nil {
		return ""
	}
	return li.Image.Src
}

type ShippingLine struct {
	Label string `json:"method_title"`
	Total string `json:"total"`
}

type Order struct {
	ID                 int64          `json:"id"`
	Status             OrderStatus    `json:"status"`
	Total              string         `json:"total"`
	Currency           string         `json:"currency"`
	CreatedAt          string         `json:"date_created"`
	Billing            Address        `json:"billing"`
	Shipping           Address        `json:"shipping"`
	PaymentMethodLabel string         `json:"payment_method_title"`
	LineItems          []LineItem     `json:"line_items"`
	ShippingLines      []ShippingLine `json:"shipping_lines"`
	CustomerNote       string         `json:"customer_note"`
}

// TotalAmount parses the authoritative order total. Malformed totals count as zero.
func (o Order) TotalAmount() float64 {
	return ParseAmount(o.Total)
}

// Subtotal is the order total minus shipping. It is derived for display and
// never sent back to the store.
func (o Order) Subtotal() float64 {
	sub := o.TotalAmount()
	for _, sl := range o.ShippingLines {
		sub -= ParseAmount(sl.Total)
	}
	return sub
}

type DiscountType string

const (
	DiscountPercent      DiscountType = "percent"
	DiscountFixedCart    DiscountType = "fixed_cart"
	DiscountFixedProduct DiscountType = "fixed_product"
)

func (d DiscountType) Valid() bool {
	switch d {
	case DiscountPercent, DiscountFixedCart, DiscountFixedProduct:
		return true
	}
	return false
}

type Coupon struct {
	ID            int64        `json:"id,omitempty"`
	Code          string       `json:"code"`
	Amount        string       `json:"amount"`
	DiscountType  DiscountType `json:"discount_type"`
	Description   string       `json:"description"`
	ExpiresAt     *string      `json:"date_expires"`
	UsageCount    int          `json:"usage_count"`
	MinimumAmount string       `json:"minimum_amount"`
}

// SameCode compares coupon codes the way the store does, ignoring case.
func (c Coupon) SameCode(code string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Code), strings.TrimSpace(code))
}

// StoreSettings holds the store API credentials. In demo mode the other
// fields are kept but never used to reach the network.
type StoreSettings struct {
	StoreURL  string `json:"url" yaml:"url"`
	APIKey    string `json:"consumer_key" yaml:"consumer_key"`
	APISecret string `json:"consumer_secret" yaml:"consumer_secret"`
	DemoMode  bool   `json:"demo_mode" yaml:"demo_mode"`
}

// HasCredentials reports whether url, key and secret are all present.
func (s StoreSettings) HasCredentials() bool {
	return strings.TrimSpace(s.StoreURL) != "" &&
		strings.TrimSpace(s.APIKey) != "" &&
		strings.TrimSpace(s.APISecret) != ""
}

// Redacted returns a copy safe to log or display.
func (s StoreSettings) Redacted() StoreSettings {
	out := s
	out.APIKey = mask(s.APIKey)
	out.APISecret = mask(s.APISecret)
	return out
}

func mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}

// ParseAmount reads a WooCommerce decimal string. Empty or malformed input is zero.
func ParseAmount(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatAmount renders an amount the way the store API does.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ViewKind names one dashboard screen. Exactly one is active at a time.
type ViewKind string

const (
	ViewDashboard   ViewKind = "dashboard"
	ViewProducts    ViewKind = "products"
	ViewProductEdit ViewKind = "product_edit"
	ViewOrders      ViewKind = "orders"
	ViewOrderDetail ViewKind = "order_detail"
	ViewCoupons     ViewKind = "coupons"
	ViewSettings    ViewKind = "settings"
)
