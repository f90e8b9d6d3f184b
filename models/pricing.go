package models

// FulfillmentMode is how the order will actually reach the customer once
// the pricing rules resolve. It can differ from the selected zone's kind
// under the pickup_fallback minimum policy.
type FulfillmentMode string

const (
	FulfillmentDelivery FulfillmentMode = "delivery"
	FulfillmentPickup   FulfillmentMode = "pickup"
)

// PricingResult is the pure projection of (cart, zone, preference) computed
// by the pricing engine. It is recomputed on every request and never
// stored; both the cart summary endpoint and the outbound order message are
// rendered from the same result so they cannot disagree.
type PricingResult struct {
	Subtotal int64 `json:"subtotal"`

	// Zone is the zone the customer selected, kept for display even when
	// the order is downgraded to pickup.
	Zone ZoneDefinition `json:"zone"`
	// EffectiveZone is the zone the order is actually fulfilled from.
	// Equal to Zone unless the order was downgraded.
	EffectiveZone ZoneDefinition  `json:"effectiveZone"`
	Mode          FulfillmentMode `json:"mode"`

	MinimumMet             bool  `json:"minimumMet"`
	FreeShippingMet        bool  `json:"freeShippingMet"`
	MissingForMinimum      int64 `json:"missingForMinimum"`
	MissingForFreeShipping int64 `json:"missingForFreeShipping"`

	// NeighborDiscount is the amount subtracted from the subtotal for
	// Benavidez-branch pickups when the session preference is set.
	NeighborDiscount int64 `json:"neighborDiscount"`

	ShippingCost int64 `json:"shippingCost"`
	Total        int64 `json:"total"`

	// Blocked is set under the block policy when a delivery order is below
	// the zone minimum; checkout must be rejected while it holds.
	Blocked bool `json:"blocked"`
	// Downgraded is set under the pickup_fallback policy when a
	// below-minimum delivery order proceeds as a branch pickup.
	Downgraded bool `json:"downgraded"`
}
