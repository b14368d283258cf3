package promotion

import (
	"context"
	"sync"
	"time"

	"github.com/sanoria/pricingservice/internal/domain"
)

// MemoryCatalog is an in-memory implementation of Catalog. It backs tests
// and single-node deployments that seed promotions from config.
type MemoryCatalog struct {
	mu    sync.RWMutex
	rules map[string]domain.PromotionRule
}

// NewMemoryCatalog creates an empty in-memory catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{rules: make(map[string]domain.PromotionRule)}
}

// NewSeededCatalog creates an in-memory catalog preloaded with the
// storefront's standing promotions.
func NewSeededCatalog() *MemoryCatalog {
	c := NewMemoryCatalog()
	ctx := context.Background()
	for _, rule := range defaultRules() {
		_ = c.Upsert(ctx, rule)
	}
	return c
}

// Lookup resolves a promo code to its rule
func (c *MemoryCatalog) Lookup(ctx context.Context, code string) (domain.PromotionRule, error) {
	key := domain.NormalizePromoCode(code)
	c.mu.RLock()
	defer c.mu.RUnlock()
	rule, ok := c.rules[key]
	if !ok {
		return domain.PromotionRule{}, domain.NewNotFoundError("promotion", key)
	}
	return rule, nil
}

// Upsert creates or replaces a rule, keyed by its normalized code
func (c *MemoryCatalog) Upsert(ctx context.Context, rule domain.PromotionRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	rule.Code = domain.NormalizePromoCode(rule.Code)
	now := time.Now()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules[rule.Code] = rule
	return nil
}

// Delete removes a rule by code
func (c *MemoryCatalog) Delete(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rules, domain.NormalizePromoCode(code))
	return nil
}

// List returns all rules, active or not
func (c *MemoryCatalog) List(ctx context.Context) ([]domain.PromotionRule, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.PromotionRule, 0, len(c.rules))
	for _, rule := range c.rules {
		out = append(out, rule)
	}
	return out, nil
}

// defaultRules returns the storefront's standing promotion table
func defaultRules() []domain.PromotionRule {
	return []domain.PromotionRule{
		{Code: "WELCOME20", Kind: domain.PromotionKindPercentage, Value: 20, MinimumOrderAmount: 1000, Active: true},
		{Code: "SAVE500", Kind: domain.PromotionKindFixedAmount, Value: 500, MinimumOrderAmount: 3000, Active: true},
		{Code: "FREESHIP", Kind: domain.PromotionKindFreeShipping, Value: 0, MinimumOrderAmount: 1500, Active: true},
		{Code: "SKINCARE15", Kind: domain.PromotionKindPercentage, Value: 15, MinimumOrderAmount: 800, Active: true},
	}
}
