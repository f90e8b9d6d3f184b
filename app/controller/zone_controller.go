package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/pricing"
)

// ZoneController handles HTTP requests for the delivery zone catalog
type ZoneController struct {
	engine *pricing.Engine
}

// NewZoneController creates a new ZoneController
func NewZoneController(engine *pricing.Engine) *ZoneController {
	return &ZoneController{
		engine: engine,
	}
}

// GetZones handles GET /zones
// Returns every pickup branch and delivery zone with its schedule,
// minimum purchase, shipping cost and free-shipping threshold
func (z *ZoneController) GetZones(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetZones: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ GetZones: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var pickup, delivery []models.ZoneDefinition
	for _, zone := range z.engine.Zones() {
		if zone.IsPickup() {
			pickup = append(pickup, zone)
		} else {
			delivery = append(delivery, zone)
		}
	}

	log.Printf("✅ GetZones: Returning %d pickup and %d delivery zones", len(pickup), len(delivery))

	response := map[string]interface{}{
		"currency": z.engine.Currency(),
		"pickup":   pickup,
		"delivery": delivery,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ GetZones: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
