package domain

import "testing"

func TestCartSubtotal(t *testing.T) {
	cart := Cart{Items: []CartLineItem{
		{ProductID: "p1", UnitPrice: 1299, Quantity: 2},
		{ProductID: "p2", UnitPrice: 850, Quantity: 3},
	}}
	if got := cart.Subtotal(); got != 5148 {
		t.Fatalf("expected 5148, got %d", got)
	}
	if cart.IsEmpty() {
		t.Fatal("cart should not be empty")
	}
	if !(Cart{}).IsEmpty() {
		t.Fatal("zero cart should be empty")
	}
}

func TestCartValidate(t *testing.T) {
	tests := []struct {
		name     string
		item     CartLineItem
		wantCode string
	}{
		{"ok", CartLineItem{ProductID: "p", UnitPrice: 100, Quantity: 1}, ""},
		{"max quantity ok", CartLineItem{ProductID: "p", UnitPrice: 100, Quantity: 10}, ""},
		{"free item ok", CartLineItem{ProductID: "p", UnitPrice: 0, Quantity: 1}, ""},
		{"negative price", CartLineItem{ProductID: "p", UnitPrice: -1, Quantity: 1}, ErrCodeNegativePrice},
		{"negative quantity", CartLineItem{ProductID: "p", UnitPrice: 100, Quantity: -2}, ErrCodeNegativeQuantity},
		{"zero quantity", CartLineItem{ProductID: "p", UnitPrice: 100, Quantity: 0}, ErrCodeZeroQuantity},
		{"over limit", CartLineItem{ProductID: "p", UnitPrice: 100, Quantity: 11}, ErrCodeQuantityExceedsLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Cart{Items: []CartLineItem{tt.item}}.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected valid cart, got %v", err)
				}
				return
			}
			de := GetDomainError(err)
			if de == nil || de.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}
