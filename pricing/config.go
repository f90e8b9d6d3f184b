package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

// MinimumPolicy decides what happens when a delivery order is below the
// zone's minimum purchase. Exactly one policy applies per deployment; the
// same resolved result feeds the drawer summary and the WhatsApp message.
type MinimumPolicy string

const (
	// PolicyBlock rejects checkout until the minimum is met or the
	// customer switches to a pickup branch.
	PolicyBlock MinimumPolicy = "block"
	// PolicyPickupFallback lets checkout proceed, re-characterizing the
	// order as a pickup at the default branch: shipping forced to 0 and
	// the address requirement dropped.
	PolicyPickupFallback MinimumPolicy = "pickup_fallback"
)

// NeighborDiscountConfig is the Benavidez-branch incentive: customers who
// flag themselves as branch neighbors get Percent off the subtotal when the
// order resolves to pickup at ZoneID. Percent 0 disables the feature.
type NeighborDiscountConfig struct {
	ZoneID  string `json:"zoneId"`
	Percent int64  `json:"percent"`
}

// Config is the pricing configuration loaded from JSON. The zone table is
// static reference data: it never changes during a session.
type Config struct {
	Currency         string                  `json:"currency"`
	MinimumPolicy    MinimumPolicy           `json:"minimumPolicy"`
	DefaultZoneID    string                  `json:"defaultZoneId"`
	NeighborDiscount NeighborDiscountConfig  `json:"neighborDiscount"`
	Zones            []models.ZoneDefinition `json:"zones"`
}

// DefaultConfig returns the built-in configuration matching the production
// zone spreadsheet: two pickup branches plus seventeen delivery zones.
func DefaultConfig() *Config {
	return &Config{
		Currency:      "ARS",
		MinimumPolicy: PolicyBlock,
		DefaultZoneID: "pickup_pacheco",
		NeighborDiscount: NeighborDiscountConfig{
			ZoneID:  "pickup_benavidez",
			Percent: 20,
		},
		Zones: []models.ZoneDefinition{
			{ID: "pickup_benavidez", Label: "Retiro Benavidez (Av. Perón 4187, Local 5)", Kind: models.ZoneKindPickup, Days: "Lunes a Viernes", Hours: "09hs a 18hs"},
			{ID: "pickup_pacheco", Label: "Retiro Pacheco (Cabildo 676)", Kind: models.ZoneKindPickup, Days: "Lunes a Viernes", Hours: "09hs a 18hs"},
			{ID: "1", Label: "Pacheco", Kind: models.ZoneKindDelivery, Days: "Lunes a Viernes", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 2200, FreeShippingAt: 100000},
			{ID: "2", Label: "Pacheco (Barrios Privados)", Kind: models.ZoneKindDelivery, Days: "Lunes", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 3800, FreeShippingAt: 100000},
			{ID: "3", Label: "Talar (cercano al local)", Kind: models.ZoneKindDelivery, Days: "Lunes a Viernes", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 2200, FreeShippingAt: 100000},
			{ID: "4", Label: "Tigre - Troncos - San Fernando", Kind: models.ZoneKindDelivery, Days: "Martes", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 3800, FreeShippingAt: 100000},
			{ID: "5", Label: "Nordelta y alrededores", Kind: models.ZoneKindDelivery, Days: "Martes", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 3800, FreeShippingAt: 100000},
			{ID: "6", Label: "Don Torcuato, Sordeaux, Villa de Mayo", Kind: models.ZoneKindDelivery, Days: "Miércoles", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 3800, FreeShippingAt: 100000},
			{ID: "7", Label: "Benavidez, Maschwitz", Kind: models.ZoneKindDelivery, Days: "Jueves", Hours: "15hs a 19hs aprox", MinPurchase: 50000, ShippingCost: 4800, FreeShippingAt: 150000},
			{ID: "8", Label: "Garin, Tortuguitas, Ricardo Rojas", Kind: models.ZoneKindDelivery, Days: "Jueves", Hours: "15hs a 19hs aprox", MinPurchase: 50000, ShippingCost: 4800, FreeShippingAt: 150000},
			{ID: "9", Label: "Dique Lujan", Kind: models.ZoneKindDelivery, Days: "Jueves", Hours: "15hs a 19hs aprox", MinPurchase: 50000, ShippingCost: 4800, FreeShippingAt: 150000},
			{ID: "10", Label: "San Miguel, Bella Vista", Kind: models.ZoneKindDelivery, Days: "Miércoles", Hours: "15hs a 19hs aprox", MinPurchase: 50000, ShippingCost: 5800, FreeShippingAt: 150000},
			{ID: "11", Label: "Los Polvorines, Grand Bourg", Kind: models.ZoneKindDelivery, Days: "Miércoles", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 3800, FreeShippingAt: 100000},
			{ID: "12", Label: "Virreyes, Beccar, San Isidro", Kind: models.ZoneKindDelivery, Days: "Miércoles", Hours: "15hs a 19hs aprox", MinPurchase: 50000, ShippingCost: 4800, FreeShippingAt: 150000},
			{ID: "13", Label: "Martinez, Olivos, Vicente Lopez", Kind: models.ZoneKindDelivery, Days: "Miércoles", Hours: "15hs a 19hs aprox", MinPurchase: 50000, ShippingCost: 4800, FreeShippingAt: 150000},
			{ID: "14", Label: "CABA Norte (Devoto, Villa del Parque)", Kind: models.ZoneKindDelivery, Days: "Jueves", Hours: "11:30hs a 17hs aprox", MinPurchase: 50000, ShippingCost: 5800, FreeShippingAt: 150000},
			{ID: "15", Label: "Escobar, Matheu, Pilar, Del Viso", Kind: models.ZoneKindDelivery, Days: "Jueves", Hours: "15hs a 19hs aprox", MinPurchase: 50000, ShippingCost: 5800, FreeShippingAt: 150000},
			{ID: "16", Label: "CABA Centro y Sur", Kind: models.ZoneKindDelivery, Days: "Jueves", Hours: "11:30hs a 17hs aprox", MinPurchase: 50000, ShippingCost: 11600, FreeShippingAt: 150000},
			{ID: "17", Label: "Talar (General)", Kind: models.ZoneKindDelivery, Days: "Lunes a Viernes", Hours: "15hs a 19hs aprox", MinPurchase: 30000, ShippingCost: 3800, FreeShippingAt: 100000},
		},
	}
}

// LoadConfig reads and validates a pricing configuration file. An empty
// path returns the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing config: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse pricing config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if len(config.Zones) == 0 {
		return fmt.Errorf("zones are required")
	}
	switch config.MinimumPolicy {
	case PolicyBlock, PolicyPickupFallback:
	case "":
		config.MinimumPolicy = PolicyBlock
	default:
		return fmt.Errorf("unknown minimumPolicy %q", config.MinimumPolicy)
	}

	seen := make(map[string]bool, len(config.Zones))
	var defaultZone *models.ZoneDefinition
	for i := range config.Zones {
		z := &config.Zones[i]
		if z.ID == "" {
			return fmt.Errorf("zone at index %d has no id", i)
		}
		if seen[z.ID] {
			return fmt.Errorf("duplicate zone id %q", z.ID)
		}
		seen[z.ID] = true
		switch z.Kind {
		case models.ZoneKindPickup:
			if z.MinPurchase != 0 || z.ShippingCost != 0 {
				return fmt.Errorf("pickup zone %q must have minPurchase 0 and shippingCost 0", z.ID)
			}
		case models.ZoneKindDelivery:
			if z.MinPurchase < 0 || z.ShippingCost < 0 || z.FreeShippingAt < 0 {
				return fmt.Errorf("delivery zone %q has negative amounts", z.ID)
			}
		default:
			return fmt.Errorf("zone %q has unknown kind %q", z.ID, z.Kind)
		}
		if z.ID == config.DefaultZoneID {
			defaultZone = z
		}
	}

	if config.DefaultZoneID == "" {
		return fmt.Errorf("defaultZoneId is required")
	}
	if defaultZone == nil {
		return fmt.Errorf("defaultZoneId %q has no matching zone", config.DefaultZoneID)
	}
	if !defaultZone.IsPickup() {
		return fmt.Errorf("defaultZoneId %q must be a pickup zone", config.DefaultZoneID)
	}

	if config.NeighborDiscount.Percent < 0 || config.NeighborDiscount.Percent > 100 {
		return fmt.Errorf("neighborDiscount.percent must be between 0 and 100")
	}
	if config.NeighborDiscount.Percent > 0 && !seen[config.NeighborDiscount.ZoneID] {
		return fmt.Errorf("neighborDiscount.zoneId %q has no matching zone", config.NeighborDiscount.ZoneID)
	}

	return nil
}
