package pricing

import (
	"fmt"
	"log"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

// Engine computes pricing results from a cart and a selected zone. It is
// stateless apart from the immutable configuration, so a single instance is
// safe to share across all sessions.
type Engine struct {
	config *Config
}

// NewEngine creates a pricing engine from a JSON config file. An empty
// configPath uses the built-in zone table.
func NewEngine(configPath string) (*Engine, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		log.Printf("💰 PricingEngine: using built-in pricing config (%d zones, policy %s)", len(config.Zones), config.MinimumPolicy)
	} else {
		log.Printf("✅ PricingEngine: loaded pricing config from %s (%d zones, policy %s)", configPath, len(config.Zones), config.MinimumPolicy)
	}
	return &Engine{config: config}, nil
}

// NewEngineFromConfig creates an engine from an already-built config.
// The config is validated the same way LoadConfig validates files.
func NewEngineFromConfig(config *Config) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}
	return &Engine{config: config}, nil
}

// Currency returns the configured currency code.
func (e *Engine) Currency() string {
	return e.config.Currency
}

// Policy returns the configured minimum-purchase policy.
func (e *Engine) Policy() MinimumPolicy {
	return e.config.MinimumPolicy
}

// Zones returns the zone table in configuration order.
func (e *Engine) Zones() []models.ZoneDefinition {
	zones := make([]models.ZoneDefinition, len(e.config.Zones))
	copy(zones, e.config.Zones)
	return zones
}

// FindZone returns the zone definition for the given id. Unknown ids fall
// back to the default pickup branch so checkout always has a valid zone.
func (e *Engine) FindZone(id string) models.ZoneDefinition {
	for _, z := range e.config.Zones {
		if z.ID == id {
			return z
		}
	}
	return e.defaultZone()
}

func (e *Engine) defaultZone() models.ZoneDefinition {
	for _, z := range e.config.Zones {
		if z.ID == e.config.DefaultZoneID {
			return z
		}
	}
	// validateConfig guarantees the default zone exists.
	return e.config.Zones[0]
}

// Subtotal sums price times quantity over all cart lines. Zero for an
// empty cart.
func Subtotal(cart *models.Cart) int64 {
	var sum int64
	for _, l := range cart.Lines {
		sum += l.LineTotal()
	}
	return sum
}

// MinimumMet reports whether the subtotal reaches the zone's minimum
// purchase. Pickup zones have minimum 0, so it always holds for them.
func MinimumMet(subtotal int64, zone models.ZoneDefinition) bool {
	return subtotal >= zone.MinPurchase
}

// FreeShippingMet holds only for delivery zones with a positive threshold
// the subtotal reaches.
func FreeShippingMet(subtotal int64, zone models.ZoneDefinition) bool {
	return !zone.IsPickup() && zone.FreeShippingAt > 0 && subtotal >= zone.FreeShippingAt
}

// ShippingCost returns the shipping amount for the subtotal in the zone:
// zero for pickups and earned free shipping, the flat zone cost otherwise.
func ShippingCost(subtotal int64, zone models.ZoneDefinition) int64 {
	if zone.IsPickup() || FreeShippingMet(subtotal, zone) {
		return 0
	}
	return zone.ShippingCost
}

// Quote resolves the full pricing result for a cart, a selected zone id and
// the session's neighbor preference. Pure: same inputs always produce the
// same result.
func (e *Engine) Quote(cart *models.Cart, zoneID string, benavidezNeighbor bool) models.PricingResult {
	zone := e.FindZone(zoneID)
	subtotal := Subtotal(cart)

	result := models.PricingResult{
		Subtotal:      subtotal,
		Zone:          zone,
		EffectiveZone: zone,
		MinimumMet:    MinimumMet(subtotal, zone),
	}
	if zone.IsPickup() {
		result.Mode = models.FulfillmentPickup
	} else {
		result.Mode = models.FulfillmentDelivery
		result.FreeShippingMet = FreeShippingMet(subtotal, zone)
		result.MissingForMinimum = maxInt64(0, zone.MinPurchase-subtotal)
		if zone.FreeShippingAt > 0 {
			result.MissingForFreeShipping = maxInt64(0, zone.FreeShippingAt-subtotal)
		}
	}

	if result.Mode == models.FulfillmentDelivery && !result.MinimumMet {
		switch e.config.MinimumPolicy {
		case PolicyPickupFallback:
			// The order proceeds as a branch pickup; the selected zone
			// stays on the result for display only.
			result.Downgraded = true
			result.Mode = models.FulfillmentPickup
			result.EffectiveZone = e.defaultZone()
			result.FreeShippingMet = false
		default:
			result.Blocked = true
		}
	}

	if result.Mode == models.FulfillmentPickup {
		result.ShippingCost = 0
	} else {
		result.ShippingCost = ShippingCost(subtotal, zone)
	}

	result.NeighborDiscount = e.neighborDiscount(subtotal, result, benavidezNeighbor)
	result.Total = subtotal - result.NeighborDiscount + result.ShippingCost

	return result
}

// neighborDiscount returns the amount off the subtotal for branch
// neighbors picking up at the configured branch.
func (e *Engine) neighborDiscount(subtotal int64, result models.PricingResult, benavidezNeighbor bool) int64 {
	d := e.config.NeighborDiscount
	if !benavidezNeighbor || d.Percent <= 0 {
		return 0
	}
	if result.Mode != models.FulfillmentPickup || result.EffectiveZone.ID != d.ZoneID {
		return 0
	}
	return subtotal * d.Percent / 100
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
