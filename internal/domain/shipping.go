package domain

// ShippingOption represents a selectable shipping method with its cost and
// optional free-shipping threshold. A FreeThreshold of zero means shipping
// is never waived on subtotal alone.
type ShippingOption struct {
	Method        string `json:"method"`
	Label         string `json:"label,omitempty"`
	BaseCost      int64  `json:"base_cost"`
	FreeThreshold int64  `json:"free_threshold,omitempty"`
	// EstimatedDays is presentation metadata carried through to clients.
	EstimatedDays int `json:"estimated_days,omitempty"`
}
