package shipping

import (
	"strings"

	"github.com/sanoria/pricingservice/internal/domain"
)

// Shipping method identifiers
const (
	MethodStandard  = "standard"
	MethodExpress   = "express"
	MethodOvernight = "overnight"
)

// FreeShippingThreshold is the single global subtotal level at or above
// which standard shipping is waived.
const FreeShippingThreshold = 2000

// RateTable resolves shipping method names to their options and filters
// method availability by destination city. The table is immutable after
// construction and safe for concurrent reads.
type RateTable struct {
	options map[string]domain.ShippingOption
	order   []string
	// overnightCities are the destinations overnight delivery can reach.
	overnightCities map[string]bool
}

// NewDefaultRateTable creates the storefront's standing rate table
func NewDefaultRateTable() *RateTable {
	return NewRateTable(
		[]domain.ShippingOption{
			{Method: MethodStandard, Label: "Standard Delivery", BaseCost: 150, FreeThreshold: FreeShippingThreshold, EstimatedDays: 5},
			{Method: MethodExpress, Label: "Express Delivery", BaseCost: 300, EstimatedDays: 2},
			{Method: MethodOvernight, Label: "Overnight Delivery", BaseCost: 500, EstimatedDays: 1},
		},
		[]string{"karachi", "lahore", "islamabad", "rawalpindi"},
	)
}

// NewRateTable creates a rate table from explicit options. Overnight
// delivery is restricted to the given cities; all other methods are
// available everywhere.
func NewRateTable(options []domain.ShippingOption, overnightCities []string) *RateTable {
	t := &RateTable{
		options:         make(map[string]domain.ShippingOption, len(options)),
		overnightCities: make(map[string]bool, len(overnightCities)),
	}
	for _, opt := range options {
		method := normalizeMethod(opt.Method)
		opt.Method = method
		if _, ok := t.options[method]; !ok {
			t.order = append(t.order, method)
		}
		t.options[method] = opt
	}
	for _, city := range overnightCities {
		t.overnightCities[normalizeCity(city)] = true
	}
	return t
}

// Resolve returns the option for a method name, or an
// UNKNOWN_SHIPPING_METHOD domain error.
func (t *RateTable) Resolve(method string) (domain.ShippingOption, error) {
	opt, ok := t.options[normalizeMethod(method)]
	if !ok {
		return domain.ShippingOption{}, domain.NewUnknownShippingMethodError(method)
	}
	return opt, nil
}

// AvailableMethods returns the options deliverable to the given city, in
// table order. An empty city returns every method.
func (t *RateTable) AvailableMethods(city string) []domain.ShippingOption {
	out := make([]domain.ShippingOption, 0, len(t.order))
	for _, method := range t.order {
		if method == MethodOvernight && city != "" && !t.overnightCities[normalizeCity(city)] {
			continue
		}
		out = append(out, t.options[method])
	}
	return out
}

func normalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
