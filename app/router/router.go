package router

import (
	"net/http"
	"strings"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/app/controller"
)

type Controllers struct {
	Catalog        *controller.CatalogController
	Cart           *controller.CartController
	Checkout       *controller.CheckoutController
	Zone           *controller.ZoneController
	Recommendation *controller.RecommendationController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Catalog routes
	http.HandleFunc("/catalog/products", controllers.Catalog.GetProducts)
	http.HandleFunc("/catalog/refresh", controllers.Catalog.RefreshCatalog)

	// Product image endpoint: /catalog/products/:id/image
	http.HandleFunc("/catalog/products/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/image") {
			controllers.Catalog.GetProductImage(w, r)
			return
		}
		// Otherwise, return 404
		http.Error(w, "Not found", http.StatusNotFound)
	})

	// Delivery zones
	http.HandleFunc("/zones", controllers.Zone.GetZones)

	// Recommendations
	http.HandleFunc("/recommendations", controllers.Recommendation.Recommend)

	// Create session
	http.HandleFunc("/sessions", controllers.Cart.CreateSession)

	// Session routes: cart, preference, summary and checkout
	http.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/sessions/")

		// Handle PATCH/DELETE /sessions/:id/cart/items/:productId
		if strings.Contains(path, "/cart/items/") {
			if r.Method == http.MethodPatch || r.Method == http.MethodPut {
				controllers.Cart.UpdateItemQuantity(w, r)
				return
			}
			if r.Method == http.MethodDelete {
				controllers.Cart.RemoveItem(w, r)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Handle POST /sessions/:id/cart/items
		if strings.HasSuffix(path, "/cart/items") {
			if r.Method == http.MethodPost {
				controllers.Cart.AddItem(w, r)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Handle GET/DELETE /sessions/:id/cart
		if strings.HasSuffix(path, "/cart") {
			if r.Method == http.MethodGet {
				controllers.Cart.GetCart(w, r)
				return
			}
			if r.Method == http.MethodDelete {
				controllers.Cart.ClearCart(w, r)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Handle PUT /sessions/:id/preference
		if strings.HasSuffix(path, "/preference") {
			if r.Method == http.MethodPut {
				controllers.Cart.SetPreference(w, r)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Handle GET /sessions/:id/summary
		if strings.HasSuffix(path, "/summary") {
			if r.Method == http.MethodGet {
				controllers.Checkout.GetSummary(w, r)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Handle POST /sessions/:id/checkout
		if strings.HasSuffix(path, "/checkout") {
			if r.Method == http.MethodPost {
				controllers.Checkout.Checkout(w, r)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		http.Error(w, "Not found", http.StatusNotFound)
	})
}
