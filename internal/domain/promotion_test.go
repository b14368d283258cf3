package domain

import "testing"

func TestNormalizePromoCode(t *testing.T) {
	cases := map[string]string{
		"welcome20":     "WELCOME20",
		"  FreeShip\t ": "FREESHIP",
		"":              "",
		"   ":           "",
	}
	for in, want := range cases {
		if got := NormalizePromoCode(in); got != want {
			t.Fatalf("NormalizePromoCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPromotionKindIsValid(t *testing.T) {
	for _, kind := range []PromotionKind{PromotionKindPercentage, PromotionKindFixedAmount, PromotionKindFreeShipping} {
		if !kind.IsValid() {
			t.Fatalf("kind %s should be valid", kind)
		}
	}
	if PromotionKind("percent").IsValid() {
		t.Fatal("unknown kind should be invalid")
	}
}

func TestRejectionReasonMessages(t *testing.T) {
	if got := RejectionBelowMinimum.Message(1000); got != "Minimum order amount of Rs. 1000 required" {
		t.Fatalf("unexpected message: %s", got)
	}
	if got := RejectionCodeNotFound.Message(0); got != "Invalid promo code" {
		t.Fatalf("unexpected message: %s", got)
	}
	if got := RejectionExpired.Message(0); got != "This code has expired" {
		t.Fatalf("unexpected message: %s", got)
	}
}
