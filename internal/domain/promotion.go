package domain

import (
	"fmt"
	"strings"
	"time"
)

// PromotionKind represents the benefit type of a promotion
type PromotionKind string

const (
	PromotionKindPercentage   PromotionKind = "percentage"
	PromotionKindFixedAmount  PromotionKind = "fixed_amount"
	PromotionKindFreeShipping PromotionKind = "free_shipping"
)

// IsValid checks if the promotion kind is one of the known variants
func (k PromotionKind) IsValid() bool {
	switch k {
	case PromotionKindPercentage, PromotionKindFixedAmount, PromotionKindFreeShipping:
		return true
	default:
		return false
	}
}

// PromotionRule represents a redeemable promotion code and its eligibility
// rules. For percentage promotions Value is an integer percent 0-100, for
// fixed amount promotions it is a rupee amount, and for free shipping it is
// unused and held at zero.
type PromotionRule struct {
	Code               string        `json:"code"`
	Kind               PromotionKind `json:"kind"`
	Value              int64         `json:"value"`
	MinimumOrderAmount int64         `json:"minimum_order_amount"`
	ValidFrom          *time.Time    `json:"valid_from,omitempty"`
	ValidUntil         *time.Time    `json:"valid_until,omitempty"`
	Active             bool          `json:"active"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Validate checks structural invariants of the rule itself
func (r PromotionRule) Validate() error {
	if NormalizePromoCode(r.Code) == "" {
		return NewInvalidInputError("promotion code is required", "")
	}
	if !r.Kind.IsValid() {
		return NewInvalidInputError("unknown promotion kind", string(r.Kind))
	}
	if r.Value < 0 {
		return NewInvalidInputError("promotion value must not be negative", fmt.Sprintf("value: %d", r.Value))
	}
	if r.Kind == PromotionKindPercentage && r.Value > 100 {
		return NewInvalidInputError("percentage promotion exceeds 100", fmt.Sprintf("value: %d", r.Value))
	}
	if r.MinimumOrderAmount < 0 {
		return NewInvalidInputError("minimum order amount must not be negative", fmt.Sprintf("amount: %d", r.MinimumOrderAmount))
	}
	return nil
}

// NormalizePromoCode canonicalizes a user-entered promo code for lookup.
// Codes are case-insensitive and surrounding whitespace is ignored.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RejectionReason represents why a supplied promo code was not applied.
// These are normal, user-recoverable outcomes, never errors.
type RejectionReason string

const (
	RejectionCodeNotFound  RejectionReason = "code_not_found"
	RejectionInactive      RejectionReason = "inactive"
	RejectionNotYetStarted RejectionReason = "not_yet_started"
	RejectionExpired       RejectionReason = "expired"
	RejectionBelowMinimum  RejectionReason = "below_minimum_order"
)

// Message returns the user-facing text for a rejection, with the minimum
// order amount interpolated where relevant.
func (r RejectionReason) Message(minimumOrderAmount int64) string {
	switch r {
	case RejectionCodeNotFound:
		return "Invalid promo code"
	case RejectionInactive:
		return "This code is no longer available"
	case RejectionNotYetStarted:
		return "This code is not active yet"
	case RejectionExpired:
		return "This code has expired"
	case RejectionBelowMinimum:
		return fmt.Sprintf("Minimum order amount of Rs. %d required", minimumOrderAmount)
	default:
		return "Promo code could not be applied"
	}
}
