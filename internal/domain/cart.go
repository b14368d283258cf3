package domain

// MaxQuantityPerItem is the per-line-item quantity ceiling enforced by the
// cart mutation API. The pricing engine trusts it but still rejects carts
// that violate the hard invariants below.
const MaxQuantityPerItem = 10

// CartLineItem represents one product+variant entry in a cart. UnitPrice is
// in whole rupees; the system carries no fractional currency units.
type CartLineItem struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Name      string `json:"name,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	InStock   bool   `json:"in_stock"`
}

// LineTotal returns unit price times quantity for this line item
func (li CartLineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Cart is an ordered snapshot of line items. Insertion order is preserved
// for display only; it is irrelevant to pricing math.
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// IsEmpty reports whether the cart holds no line items
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal returns the sum of line totals over all items
func (c Cart) Subtotal() int64 {
	var total int64
	for _, li := range c.Items {
		total += li.LineTotal()
	}
	return total
}

// Validate checks the hard line item invariants. A violation means the
// caller constructed the cart incorrectly, not that user input was bad.
func (c Cart) Validate() error {
	for _, li := range c.Items {
		switch {
		case li.UnitPrice < 0:
			return NewMalformedCartError(ErrCodeNegativePrice, li.ProductID, "unit price is negative")
		case li.Quantity < 0:
			return NewMalformedCartError(ErrCodeNegativeQuantity, li.ProductID, "quantity is negative")
		case li.Quantity == 0:
			return NewMalformedCartError(ErrCodeZeroQuantity, li.ProductID, "quantity is zero; remove the item instead")
		case li.Quantity > MaxQuantityPerItem:
			return NewMalformedCartError(ErrCodeQuantityExceedsLimit, li.ProductID, "quantity exceeds per-item limit")
		}
	}
	return nil
}
