package pricing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sanoria/pricingservice/internal/domain"
	"github.com/sanoria/pricingservice/internal/log"
	"github.com/sanoria/pricingservice/internal/metrics"
	"github.com/sanoria/pricingservice/internal/promotion"
	"github.com/sanoria/pricingservice/internal/tracing"
)

// Engine is the single authoritative computation from a cart snapshot,
// shipping selection, and optional promo code to a PriceQuote. Every call
// site (cart preview, checkout, order confirmation) goes through the same
// engine and the same catalog, so totals cannot drift between pages.
//
// The engine is a pure function of its inputs: it owns no mutable state,
// performs no I/O beyond the catalog lookup, and never reads the system
// clock. Identical inputs always produce an identical quote.
type Engine struct {
	catalog promotion.Catalog
}

// NewEngine creates a pricing engine backed by the given promotion catalog
func NewEngine(catalog promotion.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Quote computes the price quote for a cart. Invalid or ineligible promo
// codes are not errors: they degrade to a zero discount with the rejection
// reason recorded on the quote for display. Errors are reserved for
// programmer-class inputs: a malformed cart, a shipping option with no
// method, or a zero timestamp.
func (e *Engine) Quote(ctx context.Context, cart domain.Cart, shipping domain.ShippingOption, promoCode string, now time.Time) (domain.PriceQuote, error) {
	ctx, span := tracing.StartSpan(ctx, "pricing.Quote")
	defer span.End()

	if now.IsZero() {
		return domain.PriceQuote{}, &domain.DomainError{
			Code:    domain.ErrCodeInvalidTimestamp,
			Message: "Quote timestamp is not set",
		}
	}
	if shipping.Method == "" || shipping.BaseCost < 0 {
		return domain.PriceQuote{}, domain.NewUnknownShippingMethodError(shipping.Method)
	}
	if err := cart.Validate(); err != nil {
		metrics.RecordError("malformed_cart", "pricing")
		return domain.PriceQuote{}, err
	}

	// Empty carts short-circuit to a zero quote. Checkout is blocked on an
	// empty cart upstream, so a supplied promo code is ignored rather than
	// validated against a zero subtotal.
	if cart.IsEmpty() {
		metrics.RecordQuote("empty_cart", shipping.Method, 0)
		return domain.PriceQuote{}, nil
	}

	subtotal := cart.Subtotal()
	quote := domain.PriceQuote{Subtotal: subtotal}

	if code := domain.NormalizePromoCode(promoCode); code != "" {
		if err := e.resolvePromotion(ctx, &quote, code, subtotal, now); err != nil {
			return domain.PriceQuote{}, err
		}
	}

	quote.DiscountedSubtotal = subtotal - quote.Discount
	quote.ShippingCost = shippingCost(quote, shipping)
	quote.Total = quote.DiscountedSubtotal + quote.ShippingCost

	tracing.SetSpanAttributes(ctx,
		attribute.Int64("quote.subtotal", quote.Subtotal),
		attribute.Int64("quote.total", quote.Total),
		attribute.Bool("quote.promotion_applied", quote.PromotionApplied()),
	)
	metrics.RecordQuote(outcome(quote), shipping.Method, quote.Total)
	log.Debug(ctx, "quote computed",
		zap.Int64("subtotal", quote.Subtotal),
		zap.Int64("discount", quote.Discount),
		zap.Int64("shipping_cost", quote.ShippingCost),
		zap.Int64("total", quote.Total),
		zap.String("shipping_method", shipping.Method))

	return quote, nil
}

// resolvePromotion looks up and validates the code, then fills in the
// discount and either AppliedPromotion or RejectedReason on the quote.
// Only a NOT_FOUND lookup becomes a code_not_found rejection; any other
// lookup failure means the catalog itself is unavailable and the quote
// fails rather than misreporting the outage as an invalid code.
func (e *Engine) resolvePromotion(ctx context.Context, quote *domain.PriceQuote, code string, subtotal int64, now time.Time) error {
	rule, err := e.catalog.Lookup(ctx, code)
	if err != nil {
		if de := domain.GetDomainError(err); de != nil && de.Code == domain.ErrCodeNotFound {
			reject(quote, domain.RejectionCodeNotFound, 0)
			return nil
		}
		metrics.RecordError("catalog_lookup", "pricing")
		return fmt.Errorf("failed to look up promotion %s: %w", code, err)
	}

	if r := promotion.Validate(rule, subtotal, now); r != nil {
		reject(quote, *r, rule.MinimumOrderAmount)
		return nil
	}

	switch rule.Kind {
	case domain.PromotionKindPercentage:
		// Integer division truncates toward zero, which for non-negative
		// amounts is the floor. Truncation is canonical: the discount never
		// exceeds the advertised percentage.
		quote.Discount = subtotal * rule.Value / 100
	case domain.PromotionKindFixedAmount:
		quote.Discount = min(rule.Value, subtotal)
	case domain.PromotionKindFreeShipping:
		// The benefit is expressed via shipping, not subtotal reduction.
		quote.Discount = 0
	}
	quote.AppliedPromotion = &rule
	metrics.RecordPromotionApplied(rule.Code, string(rule.Kind))
	return nil
}

// shippingCost applies the free-if-either composition: an applied
// free-shipping promotion waives shipping for any method, otherwise the
// option's own threshold is checked against the discounted subtotal.
func shippingCost(quote domain.PriceQuote, shipping domain.ShippingOption) int64 {
	if quote.AppliedPromotion != nil && quote.AppliedPromotion.Kind == domain.PromotionKindFreeShipping {
		return 0
	}
	if shipping.FreeThreshold > 0 && quote.DiscountedSubtotal >= shipping.FreeThreshold {
		return 0
	}
	return shipping.BaseCost
}

func reject(quote *domain.PriceQuote, r domain.RejectionReason, minimumOrderAmount int64) {
	quote.Discount = 0
	quote.RejectedReason = &r
	quote.RejectedMessage = r.Message(minimumOrderAmount)
	metrics.RecordPromotionRejected(string(r))
}

func outcome(quote domain.PriceQuote) string {
	switch {
	case quote.AppliedPromotion != nil:
		return "promotion_applied"
	case quote.RejectedReason != nil:
		return "promotion_rejected"
	default:
		return "no_promotion"
	}
}
