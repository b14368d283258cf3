package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/sanoria/pricingservice/internal/domain"
)

func TestValidate_Order(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	// Inactive wins over every other failure.
	rule := domain.PromotionRule{
		Code: "X", Kind: domain.PromotionKindPercentage, Value: 10,
		Active: false, ValidUntil: &past, MinimumOrderAmount: 100000,
	}
	if r := Validate(rule, 0, now); r == nil || *r != domain.RejectionInactive {
		t.Fatalf("expected inactive, got %v", r)
	}

	// Then the start of the validity window.
	rule = domain.PromotionRule{
		Code: "X", Kind: domain.PromotionKindPercentage, Value: 10,
		Active: true, ValidFrom: &future, MinimumOrderAmount: 100000,
	}
	if r := Validate(rule, 0, now); r == nil || *r != domain.RejectionNotYetStarted {
		t.Fatalf("expected not_yet_started, got %v", r)
	}

	// Then expiry.
	rule = domain.PromotionRule{
		Code: "X", Kind: domain.PromotionKindPercentage, Value: 10,
		Active: true, ValidUntil: &past, MinimumOrderAmount: 100000,
	}
	if r := Validate(rule, 0, now); r == nil || *r != domain.RejectionExpired {
		t.Fatalf("expected expired, got %v", r)
	}

	// Then the minimum order amount.
	rule = domain.PromotionRule{
		Code: "X", Kind: domain.PromotionKindPercentage, Value: 10,
		Active: true, MinimumOrderAmount: 1000,
	}
	if r := Validate(rule, 999, now); r == nil || *r != domain.RejectionBelowMinimum {
		t.Fatalf("expected below_minimum_order, got %v", r)
	}
	if r := Validate(rule, 1000, now); r != nil {
		t.Fatalf("expected valid at exactly the minimum, got %v", *r)
	}
}

func TestValidate_NoDateBounds(t *testing.T) {
	// A rule without date bounds never expires.
	rule := domain.PromotionRule{Code: "X", Kind: domain.PromotionKindFixedAmount, Value: 100, Active: true}
	farFuture := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	if r := Validate(rule, 5000, farFuture); r != nil {
		t.Fatalf("expected valid, got %v", *r)
	}
}

func TestMemoryCatalog_LookupNormalizesCode(t *testing.T) {
	catalog := NewMemoryCatalog()
	ctx := context.Background()

	err := catalog.Upsert(ctx, domain.PromotionRule{
		Code: "  welcome20 ", Kind: domain.PromotionKindPercentage, Value: 20, Active: true,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	for _, code := range []string{"WELCOME20", "welcome20", " Welcome20\t"} {
		rule, err := catalog.Lookup(ctx, code)
		if err != nil {
			t.Fatalf("lookup %q failed: %v", code, err)
		}
		if rule.Code != "WELCOME20" {
			t.Fatalf("expected stored code WELCOME20, got %s", rule.Code)
		}
	}
}

func TestMemoryCatalog_LookupMissing(t *testing.T) {
	catalog := NewMemoryCatalog()
	_, err := catalog.Lookup(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("expected not found error")
	}
	de := domain.GetDomainError(err)
	if de == nil || de.Code != domain.ErrCodeNotFound {
		t.Fatalf("expected NOT_FOUND domain error, got %v", err)
	}
}

func TestMemoryCatalog_UpsertRejectsInvalidRules(t *testing.T) {
	catalog := NewMemoryCatalog()
	ctx := context.Background()

	invalid := []domain.PromotionRule{
		{Code: "", Kind: domain.PromotionKindPercentage, Value: 10},
		{Code: "X", Kind: "bogus", Value: 10},
		{Code: "X", Kind: domain.PromotionKindPercentage, Value: 101},
		{Code: "X", Kind: domain.PromotionKindFixedAmount, Value: -1},
		{Code: "X", Kind: domain.PromotionKindFixedAmount, Value: 10, MinimumOrderAmount: -5},
	}
	for i, rule := range invalid {
		if err := catalog.Upsert(ctx, rule); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestMemoryCatalog_DeleteAndList(t *testing.T) {
	catalog := NewSeededCatalog()
	ctx := context.Background()

	rules, err := catalog.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rules) != 4 {
		t.Fatalf("expected 4 seeded rules, got %d", len(rules))
	}

	if err := catalog.Delete(ctx, "freeship"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := catalog.Lookup(ctx, "FREESHIP"); err == nil {
		t.Fatal("expected FREESHIP to be gone")
	}

	// Deleting an absent code is not an error.
	if err := catalog.Delete(ctx, "FREESHIP"); err != nil {
		t.Fatalf("deleting absent code should not fail: %v", err)
	}
}
