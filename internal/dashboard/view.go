package dashboard

import "woo-admin/internal/store"

// View is the active screen. Variants carry their own selection, so a screen
// can never be paired with another screen's payload.
type View interface {
	Kind() store.ViewKind
	isView()
}

type Dashboard struct{}

type Products struct{}

// ProductEdit edits Product, or creates a new product when Product is nil.
// Draft holds the operator's unsaved changes after a failed save.
type ProductEdit struct {
	Product *store.Product
	Draft   *store.ProductPatch
}

type Orders struct{}

type OrderDetail struct {
	OrderID int64
}

type Coupons struct{}

type Settings struct{}

func (Dashboard) Kind() store.ViewKind   { return store.ViewDashboard }
func (Products) Kind() store.ViewKind    { return store.ViewProducts }
func (ProductEdit) Kind() store.ViewKind { return store.ViewProductEdit }
func (Orders) Kind() store.ViewKind      { return store.ViewOrders }
func (OrderDetail) Kind() store.ViewKind { return store.ViewOrderDetail }
func (Coupons) Kind() store.ViewKind     { return store.ViewCoupons }
func (Settings) Kind() store.ViewKind    { return store.ViewSettings }

func (Dashboard) isView()   {}
func (Products) isView()    {}
func (ProductEdit) isView() {}
func (Orders) isView()      {}
func (OrderDetail) isView() {}
func (Coupons) isView()     {}
func (Settings) isView()    {}

// parent is where leaving a detail screen returns to.
func parent(v View) View {
	switch v.(type) {
	case ProductEdit:
		return Products{}
	case OrderDetail:
		return Orders{}
	}
	return v
}
