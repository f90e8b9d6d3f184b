package models

// ZoneKind distinguishes branch pickup from home delivery.
type ZoneKind string

const (
	ZoneKindPickup   ZoneKind = "pickup"
	ZoneKindDelivery ZoneKind = "delivery"
)

// ZoneDefinition is one row of the static delivery/pickup zone table.
// Pickup zones always have MinPurchase = 0 and ShippingCost = 0: pickup is
// the incentive that relieves the delivery routes.
type ZoneDefinition struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Kind           ZoneKind `json:"kind"`
	Days           string   `json:"days"`
	Hours          string   `json:"hours"`
	MinPurchase    int64    `json:"minPurchase"`
	ShippingCost   int64    `json:"shippingCost"`
	FreeShippingAt int64    `json:"freeShippingAt"`
}

// IsPickup reports whether the zone is a branch pickup option.
func (z ZoneDefinition) IsPickup() bool {
	return z.Kind == ZoneKindPickup
}
