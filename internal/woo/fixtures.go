package woo

import "woo-admin/internal/store"

func seedProducts() []store.Product {
	return []store.Product{
		{
			ID:               1,
			Name:             "Classic Cotton T-Shirt",
			Slug:             "classic-cotton-t-shirt",
			Status:           store.ProductPublished,
			Description:      "<p>Soft, breathable <b>100% organic cotton</b> tee with a relaxed fit.</p>",
			ShortDescription: "Everyday organic cotton tee.",
			SKU:              "TS-CLASSIC",
			Price:            "25.00",
			RegularPrice:     "25.00",
			StockQuantity:    store.Ptr(120),
			ManageStock:      true,
			Weight:           "0.2",
			Dimensions:       store.Dimensions{Length: "30", Width: "25", Height: "2"},
			Images:           []store.Image{{ID: 11, Src: "https://picsum.photos/seed/tshirt/400/400", Alt: "Classic Cotton T-Shirt"}},
			Categories:       []store.Term{{ID: 1, Name: "Apparel"}},
			Tags:             []store.Term{{ID: 1, Name: "cotton"}},
			Attributes: []store.ProductAttribute{
				{ID: 1, Name: "Size", Options: []string{"S", "M", "L", "XL"}, Visible: true, Variation: true},
				{ID: 2, Name: "Color", Options: []string{"White", "Black"}, Visible: true, Variation: true},
			},
		},
		{
			ID:               2,
			Name:             "Leather Crossbody Bag",
			Slug:             "leather-crossbody-bag",
			Status:           store.ProductPublished,
			Description:      "<p>Hand-stitched <b>full-grain leather</b> bag with an adjustable strap.</p>",
			ShortDescription: "Compact everyday leather bag.",
			SKU:              "BAG-XBODY",
			Price:            "45.00",
			RegularPrice:     "60.00",
			SalePrice:        "45.00",
			OnSale:           true,
			StockQuantity:    store.Ptr(8),
			ManageStock:      true,
			Weight:           "0.6",
			Dimensions:       store.Dimensions{Length: "24", Width: "8", Height: "16"},
			Images:           []store.Image{{ID: 21, Src: "https://picsum.photos/seed/bag/400/400", Alt: "Leather Crossbody Bag"}},
			Categories:       []store.Term{{ID: 2, Name: "Accessories"}},
			Tags:             []store.Term{{ID: 2, Name: "leather"}},
			Attributes: []store.ProductAttribute{
				{ID: 2, Name: "Color", Options: []string{"Tan", "Black"}, Visible: true, Variation: true},
			},
		},
		{
			ID:               3,
			Name:             "Ceramic Pour-Over Set",
			Slug:             "ceramic-pour-over-set",
			Status:           store.ProductDraft,
			Description:      "<p>Dripper, carafe and two cups in matte stoneware.</p>",
			ShortDescription: "Four-piece coffee set.",
			SKU:              "HOME-POUR",
			Price:            "38.50",
			RegularPrice:     "38.50",
			ManageStock:      false,
			Weight:           "1.4",
			Dimensions:       store.Dimensions{Length: "20", Width: "20", Height: "22"},
			Images:           []store.Image{},
			Categories:       []store.Term{{ID: 3, Name: "Home"}},
			Tags:             []store.Term{},
			Attributes:       []store.ProductAttribute{},
		},
	}
}

func seedOrders() []store.Order {
	billing := store.Address{
		FirstName: "Ana", LastName: "García", Address1: "Calle Mayor 12",
		City: "Madrid", State: "M", Postcode: "28013", Country: "ES",
		Email: "ana.garcia@example.com", Phone: "+34 600 000 000",
	}
	shipping := billing
	shipping.Email, shipping.Phone = "", ""

	return []store.Order{
		{
			ID: 101, Status: store.OrderProcessing, Total: "100.00", Currency: "USD",
			CreatedAt: "2024-06-14T10:32:00", Billing: billing, Shipping: shipping,
			PaymentMethodLabel: "Credit card",
			LineItems: []store.LineItem{
				{ID: 1, ProductID: 1, Name: "Classic Cotton T-Shirt", Quantity: 2, UnitPrice: 25, LineTotal: "50.00", SKU: "TS-CLASSIC"},
				{ID: 2, ProductID: 2, Name: "Leather Crossbody Bag", Quantity: 1, UnitPrice: 45, LineTotal: "45.00", SKU: "BAG-XBODY"},
			},
			ShippingLines: []store.ShippingLine{{Label: "Flat rate", Total: "5.00"}},
			CustomerNote:  "Please gift wrap the bag.",
		},
		{
			ID: 102, Status: store.OrderCompleted, Total: "45.50", Currency: "USD",
			CreatedAt: "2024-06-13T16:05:00", Billing: billing, Shipping: shipping,
			PaymentMethodLabel: "PayPal",
			LineItems: []store.LineItem{
				{ID: 3, ProductID: 3, Name: "Ceramic Pour-Over Set", Quantity: 1, UnitPrice: 38.5, LineTotal: "38.50", SKU: "HOME-POUR"},
			},
			ShippingLines: []store.ShippingLine{{Label: "Express", Total: "7.00"}},
		},
		{
			ID: 103, Status: store.OrderOnHold, Total: "30.00", Currency: "USD",
			CreatedAt: "2024-06-11T09:12:00", Billing: billing, Shipping: shipping,
			PaymentMethodLabel: "Direct bank transfer",
			LineItems: []store.LineItem{
				{ID: 4, ProductID: 1, Name: "Classic Cotton T-Shirt", Quantity: 1, UnitPrice: 25, LineTotal: "25.00", SKU: "TS-CLASSIC"},
			},
			ShippingLines: []store.ShippingLine{{Label: "Flat rate", Total: "5.00"}},
		},
		{
			ID: 104, Status: store.OrderCancelled, Total: "45.00", Currency: "USD",
			CreatedAt: "2024-06-09T18:47:00", Billing: billing, Shipping: shipping,
			PaymentMethodLabel: "Credit card",
			LineItems: []store.LineItem{
				{ID: 5, ProductID: 2, Name: "Leather Crossbody Bag", Quantity: 1, UnitPrice: 45, LineTotal: "45.00", SKU: "BAG-XBODY"},
			},
		},
	}
}

func seedCoupons() []store.Coupon {
	return []store.Coupon{
		{
			ID: 201, Code: "welcome15", Amount: "15", DiscountType: store.DiscountPercent,
			Description: "First order discount", ExpiresAt: store.Ptr("2025-12-31T23:59:59"),
			UsageCount: 42, MinimumAmount: "30.00",
		},
		{
			ID: 202, Code: "freeship", Amount: "5.00", DiscountType: store.DiscountFixedCart,
			Description: "Covers flat-rate shipping", UsageCount: 7, MinimumAmount: "0.00",
		},
	}
}
