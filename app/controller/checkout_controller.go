package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/checkout"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/pricing"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/repository"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/service"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/utils"
)

type summaryResponse struct {
	SessionID string               `json:"sessionId"`
	Lines     []models.OrderLine   `json:"lines"`
	Pricing   models.PricingResult `json:"pricing"`
}

// CheckoutController handles HTTP requests for order summaries and checkout
type CheckoutController struct {
	repository repository.SessionRepositoryInterface
	engine     *pricing.Engine
	formatter  *checkout.Formatter
	analytics  *service.AnalyticsService
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(repo repository.SessionRepositoryInterface, engine *pricing.Engine, formatter *checkout.Formatter, analytics *service.AnalyticsService) *CheckoutController {
	return &CheckoutController{
		repository: repo,
		engine:     engine,
		formatter:  formatter,
		analytics:  analytics,
	}
}

// GetSummary handles GET /sessions/:id/summary?zone=ZONE_ID
// Resolves the cart against the given zone and returns the priced lines
// plus the full pricing breakdown, including blocked/downgraded states
// so the client can render minimum-purchase warnings.
//
// Example response:
//
//	{
//	  "sessionId": "3f1b5e4e-...",
//	  "lines": [{"productId": "1", "name": "Gran Pack Navideño Familiar", "quantity": 2, ...}],
//	  "pricing": {"subtotal": 116000, "shippingCost": 0, "freeShippingMet": true, "total": 116000, ...}
//	}
func (c *CheckoutController) GetSummary(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetSummary: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, _, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ GetSummary: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cart, err := c.repository.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ GetSummary: Error loading cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	neighbor, err := c.repository.GetPreference(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ GetSummary: Error loading preference for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load preference", http.StatusInternalServerError)
		return
	}

	zoneID := r.URL.Query().Get("zone")
	result := c.engine.Quote(cart, zoneID, neighbor)

	log.Printf("✅ GetSummary: Session %s zone=%s subtotal=%s total=%s blocked=%v", sessionID, result.EffectiveZone.ID, utils.FormatARS(result.Subtotal), utils.FormatARS(result.Total), result.Blocked)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&summaryResponse{
		SessionID: sessionID,
		Lines:     checkout.Breakdown(cart),
		Pricing:   result,
	})
}

// Checkout handles POST /sessions/:id/checkout
// Composes the WhatsApp order message for the resolved cart. Refuses empty
// carts, orders blocked below the zone minimum and incomplete customer data.
//
// Example request:
//
//	{"name": "Ana García", "address": "Av. Siempreviva 123", "zone": "3"}
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Checkout: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, _, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ Checkout: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var user models.UserData
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Printf("❌ Checkout: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	cart, err := c.repository.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ Checkout: Error loading cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	neighbor, err := c.repository.GetPreference(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ Checkout: Error loading preference for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load preference", http.StatusInternalServerError)
		return
	}

	result := c.engine.Quote(cart, user.Zone, neighbor)

	summary, err := c.formatter.BuildSummary(cart, result, user)
	if err != nil {
		log.Printf("❌ Checkout: Refused checkout for session %s: %v", sessionID, err)
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, checkout.ErrBelowMinimum),
			errors.Is(err, checkout.ErrMissingName),
			errors.Is(err, checkout.ErrMissingAddress):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "Failed to build order", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Checkout: Session %s order ready - zone=%s total=%s", sessionID, result.EffectiveZone.ID, utils.FormatARS(result.Total))

	c.analytics.Track(service.AnalyticsEvent{
		Event:    service.EventInitiateCheckout,
		Currency: c.engine.Currency(),
		Value:    result.Total,
		NumItems: cart.ItemCount(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		log.Printf("❌ Checkout: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
