package promotion

import (
	"context"
	"time"

	"github.com/sanoria/pricingservice/internal/domain"
)

// Catalog owns the set of promotion rules and answers lookups for the
// pricing engine and the admin API. Implementations must be safe for
// concurrent use; the engine treats the catalog as an immutable snapshot
// for the duration of one quote.
type Catalog interface {
	// Lookup resolves a promo code to its rule. The code is normalized
	// (trimmed, upper-cased) before comparison. Returns a NOT_FOUND domain
	// error when the code does not exist.
	Lookup(ctx context.Context, code string) (domain.PromotionRule, error)

	// Upsert creates or replaces a rule, keyed by its normalized code.
	Upsert(ctx context.Context, rule domain.PromotionRule) error

	// Delete removes a rule by code. Deleting an absent code is not an error.
	Delete(ctx context.Context, code string) error

	// List returns all rules, active or not, for the admin surface.
	List(ctx context.Context) ([]domain.PromotionRule, error)
}

// Validate checks whether a rule is redeemable against the given subtotal at
// the given time. It returns nil when the rule applies, or the first failing
// reason in a fixed order: active flag, start of window, end of window,
// minimum order amount. Time is an explicit input; the system clock is never
// read here.
func Validate(rule domain.PromotionRule, subtotal int64, now time.Time) *domain.RejectionReason {
	if !rule.Active {
		return reason(domain.RejectionInactive)
	}
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return reason(domain.RejectionNotYetStarted)
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return reason(domain.RejectionExpired)
	}
	if subtotal < rule.MinimumOrderAmount {
		return reason(domain.RejectionBelowMinimum)
	}
	return nil
}

func reason(r domain.RejectionReason) *domain.RejectionReason {
	return &r
}
