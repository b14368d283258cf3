package shipping

import (
	"testing"

	"github.com/sanoria/pricingservice/internal/domain"
)

func TestRateTable_Resolve(t *testing.T) {
	table := NewDefaultRateTable()

	opt, err := table.Resolve("standard")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if opt.BaseCost != 150 || opt.FreeThreshold != FreeShippingThreshold {
		t.Fatalf("unexpected standard option: %+v", opt)
	}

	// Method names are case-insensitive.
	if _, err := table.Resolve("  EXPRESS "); err != nil {
		t.Fatalf("resolve should normalize method names: %v", err)
	}

	_, err = table.Resolve("drone")
	if err == nil {
		t.Fatal("expected unknown method error")
	}
	de := domain.GetDomainError(err)
	if de == nil || de.Code != domain.ErrCodeUnknownShippingMethod {
		t.Fatalf("expected UNKNOWN_SHIPPING_METHOD, got %v", err)
	}
}

func TestRateTable_AvailableMethods(t *testing.T) {
	table := NewDefaultRateTable()

	all := table.AvailableMethods("")
	if len(all) != 3 {
		t.Fatalf("expected 3 methods with no city filter, got %d", len(all))
	}

	// Overnight reaches the major cities only.
	forKarachi := table.AvailableMethods("Karachi")
	if len(forKarachi) != 3 {
		t.Fatalf("expected 3 methods for karachi, got %d", len(forKarachi))
	}

	forQuetta := table.AvailableMethods("quetta")
	if len(forQuetta) != 2 {
		t.Fatalf("expected 2 methods for quetta, got %d", len(forQuetta))
	}
	for _, opt := range forQuetta {
		if opt.Method == MethodOvernight {
			t.Fatal("overnight should be filtered out for quetta")
		}
	}
}
