package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSubtotal(t *testing.T) {
	o := Order{
		Total: "120.50",
		ShippingLines: []ShippingLine{
			{Label: "Flat rate", Total: "10.00"},
			{Label: "Express", Total: "5.50"},
		},
	}
	assert.InDelta(t, 105.0, o.Subtotal(), 0.001)
	assert.InDelta(t, 120.5, o.TotalAmount(), 0.001)
}

func TestOrderSubtotalNotSerialized(t *testing.T) {
	data, err := json.Marshal(Order{ID: 7, Total: "10.00"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "subtotal")
}

func TestProductStockOnlyWhenManaged(t *testing.T) {
	qty := 12
	p := Product{StockQuantity: &qty}
	_, ok := p.Stock()
	assert.False(t, ok)

	p.ManageStock = true
	got, ok := p.Stock()
	assert.True(t, ok)
	assert.Equal(t, 12, got)
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range OrderStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderRefunded.Counted())
	assert.True(t, OrderOnHold.Counted())
}

func TestStoreSettingsHasCredentials(t *testing.T) {
	tests := []struct {
		name string
		s    StoreSettings
		want bool
	}{
		{"complete", StoreSettings{StoreURL: "https://shop.test", APIKey: "ck", APISecret: "cs"}, true},
		{"missing key", StoreSettings{StoreURL: "https://shop.test", APISecret: "cs"}, false},
		{"blank url", StoreSettings{StoreURL: "  ", APIKey: "ck", APISecret: "cs"}, false},
		{"demo only", StoreSettings{DemoMode: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.HasCredentials())
		})
	}
}

func TestStoreSettingsRedacted(t *testing.T) {
	s := StoreSettings{APIKey: "ck_1234567890", APISecret: "cs"}
	r := s.Redacted()
	assert.Equal(t, "*********7890", r.APIKey)
	assert.Equal(t, "**", r.APISecret)
	assert.Equal(t, "ck_1234567890", s.APIKey)
}

func TestCouponSameCode(t *testing.T) {
	c := Coupon{Code: "SAVE10"}
	assert.True(t, c.SameCode("save10"))
	assert.False(t, c.SameCode("SAVE20"))
}

func TestProductDecodesWooPayload(t *testing.T) {
	payload := `{"id":9,"name":"Mug","status":"publish","regular_price":"12.00",
		"stock_quantity":null,"manage_stock":false,
		"images":[{"id":1,"src":"https://img.test/mug.png","alt":"mug"}],
		"attributes":[{"id":0,"name":"Color","options":["Red","Blue"],"visible":true,"variation":true}]}`
	var p Product
	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, ProductPublished, p.Status)
	assert.Nil(t, p.StockQuantity)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, []string{"Red", "Blue"}, p.Attributes[0].Options)
	assert.True(t, p.Attributes[0].Variation)
}

func TestProductPatchKeepsUnsetFields(t *testing.T) {
	p := Product{
		ID: 1, Name: "Tee", SKU: "TS-1", Description: "<p>soft</p>", SalePrice: "9.00",
		Tags:       []Term{{ID: 3, Name: "summer"}},
		Attributes: []ProductAttribute{{Name: "Size", Options: []string{"S", "M"}}},
	}
	var patch ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Renamed","sale_price":"","tags":[]}`), &patch))
	patch.Apply(&p)

	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, "TS-1", p.SKU)
	assert.Equal(t, "<p>soft</p>", p.Description)
	assert.Equal(t, "", p.SalePrice, "an empty value that is present still applies")
	assert.Empty(t, p.Tags)
	assert.NotNil(t, p.Tags)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, []string{"S", "M"}, p.Attributes[0].Options)
}

func TestProductPatchEncodesOnlySetFields(t *testing.T) {
	data, err := json.Marshal(ProductPatch{ID: 5, Name: Ptr("X"), SalePrice: Ptr("")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"name":"X","sale_price":""}`, string(data))
}
