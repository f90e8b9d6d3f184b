package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

func newTestEngine(t *testing.T, policy MinimumPolicy) *Engine {
	t.Helper()
	config := DefaultConfig()
	config.MinimumPolicy = policy
	engine, err := NewEngineFromConfig(config)
	require.NoError(t, err)
	return engine
}

func cartWith(lines ...models.CartLine) *models.Cart {
	return &models.Cart{Lines: lines}
}

func TestSubtotal(t *testing.T) {
	t.Run("empty cart is zero", func(t *testing.T) {
		assert.Equal(t, int64(0), Subtotal(models.NewCart()))
	})

	t.Run("sums price times quantity", func(t *testing.T) {
		cart := cartWith(
			models.CartLine{ProductID: "1", UnitPrice: 15000, Quantity: 2},
			models.CartLine{ProductID: "2", UnitPrice: 32000, Quantity: 3},
		)
		assert.Equal(t, int64(2*15000+3*32000), Subtotal(cart))
	})
}

func TestPickupZoneInvariants(t *testing.T) {
	engine := newTestEngine(t, PolicyBlock)

	for _, zoneID := range []string{"pickup_benavidez", "pickup_pacheco"} {
		zone := engine.FindZone(zoneID)
		require.True(t, zone.IsPickup())

		// Shipping is always 0 and the minimum always met for pickups,
		// regardless of subtotal.
		for _, subtotal := range []int64{0, 1, 29999, 30000, 1000000} {
			assert.Equal(t, int64(0), ShippingCost(subtotal, zone), "zone %s subtotal %d", zoneID, subtotal)
			assert.True(t, MinimumMet(subtotal, zone), "zone %s subtotal %d", zoneID, subtotal)
			assert.False(t, FreeShippingMet(subtotal, zone))
		}
	}
}

func TestDeliveryShipping(t *testing.T) {
	engine := newTestEngine(t, PolicyBlock)
	zone := engine.FindZone("1")
	require.Equal(t, int64(2200), zone.ShippingCost)
	require.Equal(t, int64(100000), zone.FreeShippingAt)

	t.Run("below threshold pays flat cost", func(t *testing.T) {
		assert.Equal(t, int64(2200), ShippingCost(99999, zone))
		assert.False(t, FreeShippingMet(99999, zone))
	})

	t.Run("at threshold ships free", func(t *testing.T) {
		assert.Equal(t, int64(0), ShippingCost(100000, zone))
		assert.True(t, FreeShippingMet(100000, zone))
	})
}

func TestFindZoneFallsBackToDefaultPickup(t *testing.T) {
	engine := newTestEngine(t, PolicyBlock)

	zone := engine.FindZone("no-such-zone")
	assert.Equal(t, "pickup_pacheco", zone.ID)
	assert.True(t, zone.IsPickup())

	zone = engine.FindZone("")
	assert.Equal(t, "pickup_pacheco", zone.ID)
}

func TestQuoteScenarios(t *testing.T) {
	engine := newTestEngine(t, PolicyBlock)
	// 2 units at $15.000: exactly the $30.000 minimum of zone 1.
	cart := cartWith(models.CartLine{ProductID: "a", Name: "Caja Huerta", UnitPrice: 15000, Quantity: 2})

	t.Run("delivery at exact minimum", func(t *testing.T) {
		result := engine.Quote(cart, "1", false)
		assert.Equal(t, int64(30000), result.Subtotal)
		assert.True(t, result.MinimumMet)
		assert.False(t, result.FreeShippingMet)
		assert.Equal(t, int64(2200), result.ShippingCost)
		assert.Equal(t, int64(32200), result.Total)
		assert.Equal(t, models.FulfillmentDelivery, result.Mode)
		assert.False(t, result.Blocked)
	})

	t.Run("same cart as pickup", func(t *testing.T) {
		result := engine.Quote(cart, "pickup_pacheco", false)
		assert.Equal(t, int64(30000), result.Subtotal)
		assert.Equal(t, int64(0), result.ShippingCost)
		assert.Equal(t, int64(30000), result.Total)
		assert.Equal(t, models.FulfillmentPickup, result.Mode)
	})

	t.Run("free shipping at exact threshold", func(t *testing.T) {
		bigCart := cartWith(models.CartLine{ProductID: "a", UnitPrice: 50000, Quantity: 2})
		result := engine.Quote(bigCart, "1", false)
		assert.Equal(t, int64(100000), result.Subtotal)
		assert.True(t, result.FreeShippingMet)
		assert.Equal(t, int64(0), result.ShippingCost)
		assert.Equal(t, int64(100000), result.Total)
		assert.Equal(t, int64(0), result.MissingForFreeShipping)
	})

	t.Run("empty cart", func(t *testing.T) {
		result := engine.Quote(models.NewCart(), "1", false)
		assert.Equal(t, int64(0), result.Subtotal)
		assert.Equal(t, int64(30000), result.MissingForMinimum)
	})
}

func TestQuoteBelowMinimum(t *testing.T) {
	// Subtotal $20.000 against zone 1's $30.000 minimum.
	cart := cartWith(models.CartLine{ProductID: "a", UnitPrice: 10000, Quantity: 2})

	t.Run("block policy flags the order", func(t *testing.T) {
		engine := newTestEngine(t, PolicyBlock)
		result := engine.Quote(cart, "1", false)
		assert.True(t, result.Blocked)
		assert.False(t, result.Downgraded)
		assert.Equal(t, models.FulfillmentDelivery, result.Mode)
		assert.Equal(t, int64(10000), result.MissingForMinimum)
	})

	t.Run("pickup_fallback downgrades the order", func(t *testing.T) {
		engine := newTestEngine(t, PolicyPickupFallback)
		result := engine.Quote(cart, "1", false)
		assert.False(t, result.Blocked)
		assert.True(t, result.Downgraded)
		assert.Equal(t, models.FulfillmentPickup, result.Mode)
		assert.Equal(t, int64(0), result.ShippingCost)
		assert.Equal(t, int64(20000), result.Total)
		// Selected zone stays visible, fulfillment moves to the branch.
		assert.Equal(t, "1", result.Zone.ID)
		assert.Equal(t, "pickup_pacheco", result.EffectiveZone.ID)
	})

	t.Run("minimum met never downgrades", func(t *testing.T) {
		engine := newTestEngine(t, PolicyPickupFallback)
		okCart := cartWith(models.CartLine{ProductID: "a", UnitPrice: 15000, Quantity: 2})
		result := engine.Quote(okCart, "1", false)
		assert.False(t, result.Downgraded)
		assert.Equal(t, models.FulfillmentDelivery, result.Mode)
	})
}

func TestQuoteNeighborDiscount(t *testing.T) {
	engine := newTestEngine(t, PolicyBlock)
	cart := cartWith(models.CartLine{ProductID: "a", UnitPrice: 29000, Quantity: 2})

	t.Run("applies at the Benavidez branch with the flag set", func(t *testing.T) {
		result := engine.Quote(cart, "pickup_benavidez", true)
		assert.Equal(t, int64(58000), result.Subtotal)
		assert.Equal(t, int64(11600), result.NeighborDiscount)
		assert.Equal(t, int64(46400), result.Total)
	})

	t.Run("without the flag", func(t *testing.T) {
		result := engine.Quote(cart, "pickup_benavidez", false)
		assert.Equal(t, int64(0), result.NeighborDiscount)
		assert.Equal(t, int64(58000), result.Total)
	})

	t.Run("not at other zones", func(t *testing.T) {
		result := engine.Quote(cart, "pickup_pacheco", true)
		assert.Equal(t, int64(0), result.NeighborDiscount)

		result = engine.Quote(cart, "1", true)
		assert.Equal(t, int64(0), result.NeighborDiscount)
	})

	t.Run("percent 0 disables the feature", func(t *testing.T) {
		config := DefaultConfig()
		config.NeighborDiscount.Percent = 0
		engine, err := NewEngineFromConfig(config)
		require.NoError(t, err)
		result := engine.Quote(cart, "pickup_benavidez", true)
		assert.Equal(t, int64(0), result.NeighborDiscount)
	})
}

func TestQuoteTotalAndIdempotence(t *testing.T) {
	for _, policy := range []MinimumPolicy{PolicyBlock, PolicyPickupFallback} {
		engine := newTestEngine(t, policy)
		carts := []*models.Cart{
			models.NewCart(),
			cartWith(models.CartLine{ProductID: "a", UnitPrice: 9999, Quantity: 1}),
			cartWith(
				models.CartLine{ProductID: "a", UnitPrice: 15000, Quantity: 2},
				models.CartLine{ProductID: "b", UnitPrice: 58000, Quantity: 3},
			),
		}
		for _, cart := range carts {
			for _, zone := range engine.Zones() {
				first := engine.Quote(cart, zone.ID, true)
				second := engine.Quote(cart, zone.ID, true)
				assert.Equal(t, first, second, "quote must be idempotent")

				assert.Equal(t, first.Subtotal-first.NeighborDiscount+first.ShippingCost, first.Total)
				assert.GreaterOrEqual(t, first.Total, int64(0))
				assert.GreaterOrEqual(t, first.ShippingCost, int64(0))
			}
		}
	}
}

func TestConfigValidation(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		_, err := NewEngineFromConfig(DefaultConfig())
		assert.NoError(t, err)
	})

	t.Run("pickup zone with a fee is rejected", func(t *testing.T) {
		config := DefaultConfig()
		config.Zones[0].ShippingCost = 1000
		_, err := NewEngineFromConfig(config)
		assert.Error(t, err)
	})

	t.Run("default zone must be pickup", func(t *testing.T) {
		config := DefaultConfig()
		config.DefaultZoneID = "1"
		_, err := NewEngineFromConfig(config)
		assert.Error(t, err)
	})

	t.Run("unknown policy is rejected", func(t *testing.T) {
		config := DefaultConfig()
		config.MinimumPolicy = "maybe"
		_, err := NewEngineFromConfig(config)
		assert.Error(t, err)
	})

	t.Run("duplicate zone ids are rejected", func(t *testing.T) {
		config := DefaultConfig()
		config.Zones = append(config.Zones, config.Zones[2])
		_, err := NewEngineFromConfig(config)
		assert.Error(t, err)
	})
}
