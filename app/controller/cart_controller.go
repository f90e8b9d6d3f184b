package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/pricing"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/repository"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/service"
)

// sessionPath splits /sessions/:id/... into the session ID and the
// remaining path segments, validating the ID is a UUID
func sessionPath(r *http.Request) (string, []string, error) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", nil, fmt.Errorf("missing session ID")
	}
	if _, err := uuid.Parse(parts[0]); err != nil {
		return "", nil, fmt.Errorf("invalid session ID: %s", parts[0])
	}
	return parts[0], parts[1:], nil
}

type cartResponse struct {
	SessionID string            `json:"sessionId"`
	Lines     []models.CartLine `json:"lines"`
	ItemCount int               `json:"itemCount"`
	Subtotal  int64             `json:"subtotal"`
}

func newCartResponse(sessionID string, cart *models.Cart) *cartResponse {
	return &cartResponse{
		SessionID: sessionID,
		Lines:     cart.Lines,
		ItemCount: cart.ItemCount(),
		Subtotal:  pricing.Subtotal(cart),
	}
}

// CartController handles HTTP requests for sessions and their carts
type CartController struct {
	repository repository.SessionRepositoryInterface
	catalog    *service.CatalogService
	analytics  *service.AnalyticsService
	engine     *pricing.Engine
}

// NewCartController creates a new CartController
func NewCartController(repo repository.SessionRepositoryInterface, catalog *service.CatalogService, analytics *service.AnalyticsService, engine *pricing.Engine) *CartController {
	return &CartController{
		repository: repo,
		catalog:    catalog,
		analytics:  analytics,
		engine:     engine,
	}
}

// CreateSession handles POST /sessions
// Creates a new anonymous session with an empty cart
//
// Example response:
//
//	{"sessionId": "3f1b5e4e-9a2c-4d7f-8a61-2c9d04b7e512"}
func (c *CartController) CreateSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateSession: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ CreateSession: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := uuid.NewString()
	if err := c.repository.SaveCart(r.Context(), sessionID, models.NewCart()); err != nil {
		log.Printf("❌ CreateSession: Error saving empty cart: %v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ CreateSession: Created session %s", sessionID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"sessionId": sessionID})
}

// GetCart handles GET /sessions/:id/cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetCart: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, _, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ GetCart: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cart, err := c.repository.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ GetCart: Error loading cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ GetCart: Session %s has %d items", sessionID, cart.ItemCount())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newCartResponse(sessionID, cart))
}

// ClearCart handles DELETE /sessions/:id/cart
func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ClearCart: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, _, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ ClearCart: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := c.repository.DeleteCart(r.Context(), sessionID); err != nil {
		log.Printf("❌ ClearCart: Error deleting cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ ClearCart: Cleared cart for session %s", sessionID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newCartResponse(sessionID, models.NewCart()))
}

// AddItem handles POST /sessions/:id/cart/items
// Adds a product to the cart, incrementing the quantity if it's already there.
// Rejects the add when the requested total would exceed the product stock.
//
// Example request:
//
//	{"productId": "1", "quantity": 2}
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddItem: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, _, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ AddItem: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ AddItem: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.ProductID == "" {
		log.Printf("❌ AddItem: productId cannot be empty")
		http.Error(w, "productId cannot be empty", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		log.Printf("❌ AddItem: Invalid quantity: %d", req.Quantity)
		http.Error(w, "quantity must be greater than 0", http.StatusBadRequest)
		return
	}

	product, found := c.catalog.FindProduct(req.ProductID)
	if !found {
		log.Printf("❌ AddItem: Product not found: %s", req.ProductID)
		http.Error(w, fmt.Sprintf("Product not found: %s", req.ProductID), http.StatusNotFound)
		return
	}

	cart, err := c.repository.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ AddItem: Error loading cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if !product.InStock() {
		log.Printf("❌ AddItem: Product out of stock: %s", product.ID)
		http.Error(w, fmt.Sprintf("Product out of stock: %s", product.Name), http.StatusConflict)
		return
	}

	existing := 0
	if line := cart.Find(product.ID); line != nil {
		existing = line.Quantity
	}
	if existing+req.Quantity > product.Stock {
		log.Printf("❌ AddItem: Insufficient stock for %s - requested=%d, in_cart=%d, stock=%d", product.ID, req.Quantity, existing, product.Stock)
		http.Error(w, fmt.Sprintf("Insufficient stock for %s: %d available", product.Name, product.Stock), http.StatusConflict)
		return
	}

	if err := cart.Add(product, req.Quantity); err != nil {
		log.Printf("❌ AddItem: Error adding product %s: %v", product.ID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := c.repository.SaveCart(r.Context(), sessionID, cart); err != nil {
		log.Printf("❌ AddItem: Error saving cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to save cart", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ AddItem: Added %dx %s to session %s", req.Quantity, product.Name, sessionID)

	c.analytics.Track(service.AnalyticsEvent{
		Event:       service.EventAddToCart,
		Currency:    c.engine.Currency(),
		Value:       product.Price * int64(req.Quantity),
		NumItems:    req.Quantity,
		ProductID:   product.ID,
		ProductName: product.Name,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newCartResponse(sessionID, cart))
}

// UpdateItemQuantity handles PATCH /sessions/:id/cart/items/:productId
// Applies a quantity delta; quantities that reach zero remove the line.
//
// Example request:
//
//	{"delta": -1}
func (c *CartController) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateItemQuantity: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, segments, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ UpdateItemQuantity: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Path is :id/cart/items/:productId
	if len(segments) != 3 || segments[0] != "cart" || segments[1] != "items" {
		log.Printf("❌ UpdateItemQuantity: Invalid path: %s", r.URL.Path)
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	productID := segments[2]

	var req models.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ UpdateItemQuantity: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.Delta == 0 {
		log.Printf("❌ UpdateItemQuantity: delta cannot be 0")
		http.Error(w, "delta cannot be 0", http.StatusBadRequest)
		return
	}

	cart, err := c.repository.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ UpdateItemQuantity: Error loading cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if req.Delta > 0 {
		if product, found := c.catalog.FindProduct(productID); found {
			existing := 0
			if line := cart.Find(productID); line != nil {
				existing = line.Quantity
			}
			if existing+req.Delta > product.Stock {
				log.Printf("❌ UpdateItemQuantity: Insufficient stock for %s - delta=%d, in_cart=%d, stock=%d", productID, req.Delta, existing, product.Stock)
				http.Error(w, fmt.Sprintf("Insufficient stock for %s: %d available", product.Name, product.Stock), http.StatusConflict)
				return
			}
		}
	}

	removed, found := cart.UpdateQuantity(productID, req.Delta)
	if !found {
		log.Printf("❌ UpdateItemQuantity: Product not in cart: %s", productID)
		http.Error(w, fmt.Sprintf("Product not in cart: %s", productID), http.StatusNotFound)
		return
	}

	if err := c.repository.SaveCart(r.Context(), sessionID, cart); err != nil {
		log.Printf("❌ UpdateItemQuantity: Error saving cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to save cart", http.StatusInternalServerError)
		return
	}

	if removed {
		log.Printf("✅ UpdateItemQuantity: Removed %s from session %s (quantity reached 0)", productID, sessionID)
	} else {
		log.Printf("✅ UpdateItemQuantity: Applied delta %d to %s in session %s", req.Delta, productID, sessionID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newCartResponse(sessionID, cart))
}

// RemoveItem handles DELETE /sessions/:id/cart/items/:productId
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 RemoveItem: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, segments, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ RemoveItem: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(segments) != 3 || segments[0] != "cart" || segments[1] != "items" {
		log.Printf("❌ RemoveItem: Invalid path: %s", r.URL.Path)
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	productID := segments[2]

	cart, err := c.repository.GetCart(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ RemoveItem: Error loading cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if !cart.Remove(productID) {
		log.Printf("❌ RemoveItem: Product not in cart: %s", productID)
		http.Error(w, fmt.Sprintf("Product not in cart: %s", productID), http.StatusNotFound)
		return
	}

	if err := c.repository.SaveCart(r.Context(), sessionID, cart); err != nil {
		log.Printf("❌ RemoveItem: Error saving cart for session %s: %v", sessionID, err)
		http.Error(w, "Failed to save cart", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ RemoveItem: Removed %s from session %s", productID, sessionID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(newCartResponse(sessionID, cart))
}

// SetPreference handles PUT /sessions/:id/preference
// Stores the Benavídez-neighbor flag used for the pickup discount
//
// Example request:
//
//	{"benavidezNeighbor": true}
func (c *CartController) SetPreference(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 SetPreference: Received %s request to %s", r.Method, r.URL.Path)

	sessionID, _, err := sessionPath(r)
	if err != nil {
		log.Printf("❌ SetPreference: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.PreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ SetPreference: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := c.repository.SavePreference(r.Context(), sessionID, req.BenavidezNeighbor); err != nil {
		log.Printf("❌ SetPreference: Error saving preference for session %s: %v", sessionID, err)
		http.Error(w, "Failed to save preference", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ SetPreference: Session %s benavidezNeighbor=%v", sessionID, req.BenavidezNeighbor)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"benavidezNeighbor": req.BenavidezNeighbor})
}
