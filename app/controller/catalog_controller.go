package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/service"
)

// CatalogController handles HTTP requests for the product catalog
type CatalogController struct {
	catalog *service.CatalogService
	images  *service.ImageService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog *service.CatalogService, images *service.ImageService) *CatalogController {
	return &CatalogController{
		catalog: catalog,
		images:  images,
	}
}

// GetProducts handles GET /catalog/products
// Optional query parameter: category (exact match, case-insensitive)
//
// Example response:
//
//	{
//	  "source": "csv",
//	  "products": [
//	    {"id": "1", "name": "Gran Pack Navideño Familiar", "price": 58000, ...}
//	  ]
//	}
func (c *CatalogController) GetProducts(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetProducts: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ GetProducts: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := r.URL.Query().Get("category")
	products := c.catalog.Products()
	if category != "" {
		products = c.catalog.ProductsByCategory(category)
	}

	log.Printf("✅ GetProducts: Returning %d products (category=%q, source=%s)", len(products), category, c.catalog.Source())

	response := map[string]interface{}{
		"source":   c.catalog.Source(),
		"products": products,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ GetProducts: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// RefreshCatalog handles POST /catalog/refresh
// Re-fetches the product feed and swaps the in-memory catalog
func (c *CatalogController) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 RefreshCatalog: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ RefreshCatalog: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := c.catalog.Refresh(r.Context())

	log.Printf("✅ RefreshCatalog: Refresh finished - source=%s, products=%d, rowErrors=%d", stats.Source, stats.ProductCount, len(stats.RowErrors))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Printf("❌ RefreshCatalog: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// GetProductImage handles GET /catalog/products/:id/image?size=thumb|medium
// Returns a resized JPEG of the product image
func (c *CatalogController) GetProductImage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetProductImage: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ GetProductImage: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Extract product ID from path: /catalog/products/:id/image
	path := strings.TrimPrefix(r.URL.Path, "/catalog/products/")
	productID := strings.TrimSuffix(path, "/image")
	if productID == "" || strings.Contains(productID, "/") {
		log.Printf("❌ GetProductImage: Invalid product ID in path: %s", r.URL.Path)
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	product, found := c.catalog.FindProduct(productID)
	if !found {
		log.Printf("❌ GetProductImage: Product not found: %s", productID)
		http.Error(w, fmt.Sprintf("Product not found: %s", productID), http.StatusNotFound)
		return
	}

	size := r.URL.Query().Get("size")
	data, err := c.images.Thumbnail(r.Context(), product, size)
	if err != nil {
		log.Printf("❌ GetProductImage: Error generating image for %s: %v", productID, err)
		if strings.Contains(err.Error(), "unknown image size") {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.Contains(err.Error(), "has no image") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to generate image", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ GetProductImage: Serving %s image for product %s (%d bytes)", size, productID, len(data))

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
