package domain

// PriceQuote represents the fully computed, immutable pricing result for a
// cart/shipping/promo combination at a point in time. All amounts are whole
// rupees and Total always equals Subtotal - Discount + ShippingCost.
type PriceQuote struct {
	Subtotal           int64 `json:"subtotal"`
	Discount           int64 `json:"discount"`
	DiscountedSubtotal int64 `json:"discounted_subtotal"`
	ShippingCost       int64 `json:"shipping_cost"`
	Total              int64 `json:"total"`

	// AppliedPromotion is set when a supplied code passed validation;
	// RejectedReason is set when one was supplied but did not apply.
	// At most one of the two is ever set.
	AppliedPromotion *PromotionRule   `json:"applied_promotion,omitempty"`
	RejectedReason   *RejectionReason `json:"rejected_reason,omitempty"`

	// RejectedMessage is the user-facing text for RejectedReason.
	RejectedMessage string `json:"rejected_message,omitempty"`
}

// FreeShipping reports whether the quote carries no shipping cost
func (q PriceQuote) FreeShipping() bool {
	return q.ShippingCost == 0
}

// PromotionApplied reports whether a promotion was applied to this quote
func (q PriceQuote) PromotionApplied() bool {
	return q.AppliedPromotion != nil
}
