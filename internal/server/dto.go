package server

import (
	"github.com/sanoria/pricingservice/internal/domain"
)

// QuoteRequest is the body of POST /api/v1/quote
type QuoteRequest struct {
	SessionID      string        `json:"session_id,omitempty"`
	Items          []LineItemDTO `json:"items"`
	ShippingMethod string        `json:"shipping_method"`
	City           string        `json:"city,omitempty"`
	PromoCode      string        `json:"promo_code,omitempty"`
}

// LineItemDTO is one cart line item on the wire
type LineItemDTO struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Name      string `json:"name,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	InStock   bool   `json:"in_stock"`
}

// QuoteResponse is the computed quote on the wire. All amounts are whole
// rupees; currency formatting is a client concern.
type QuoteResponse struct {
	Subtotal             int64  `json:"subtotal"`
	Discount             int64  `json:"discount"`
	DiscountedSubtotal   int64  `json:"discounted_subtotal"`
	ShippingCost         int64  `json:"shipping_cost"`
	FreeShipping         bool   `json:"free_shipping"`
	Total                int64  `json:"total"`
	AppliedPromotionCode string `json:"applied_promotion_code,omitempty"`
	RejectedReason       string `json:"rejected_reason,omitempty"`
	RejectedMessage      string `json:"rejected_message,omitempty"`
}

// CartResponse is a stored cart snapshot on the wire
type CartResponse struct {
	SessionID string        `json:"session_id"`
	Items     []LineItemDTO `json:"items"`
	Subtotal  int64         `json:"subtotal"`
	IsEmpty   bool          `json:"is_empty"`
}

// SaveCartRequest is the body of cart save endpoints
type SaveCartRequest struct {
	Items []LineItemDTO `json:"items"`
}

// PromotionDTO is a promotion rule on the admin wire
type PromotionDTO = domain.PromotionRule

// ErrorResponse is the machine-readable error body
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func toCart(items []LineItemDTO) domain.Cart {
	c := domain.Cart{Items: make([]domain.CartLineItem, 0, len(items))}
	for _, it := range items {
		c.Items = append(c.Items, domain.CartLineItem{
			ProductID: it.ProductID,
			Variant:   it.Variant,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			InStock:   it.InStock,
		})
	}
	return c
}

func toLineItemDTOs(c domain.Cart) []LineItemDTO {
	items := make([]LineItemDTO, 0, len(c.Items))
	for _, li := range c.Items {
		items = append(items, LineItemDTO{
			ProductID: li.ProductID,
			Variant:   li.Variant,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
			InStock:   li.InStock,
		})
	}
	return items
}

func toQuoteResponse(q domain.PriceQuote) QuoteResponse {
	resp := QuoteResponse{
		Subtotal:           q.Subtotal,
		Discount:           q.Discount,
		DiscountedSubtotal: q.DiscountedSubtotal,
		ShippingCost:       q.ShippingCost,
		FreeShipping:       q.FreeShipping(),
		Total:              q.Total,
		RejectedMessage:    q.RejectedMessage,
	}
	if q.AppliedPromotion != nil {
		resp.AppliedPromotionCode = q.AppliedPromotion.Code
	}
	if q.RejectedReason != nil {
		resp.RejectedReason = string(*q.RejectedReason)
	}
	return resp
}
