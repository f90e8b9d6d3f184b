package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/service"
)

// RecommendationController handles HTTP requests for product recommendations
type RecommendationController struct {
	recommendations *service.RecommendationService
}

// NewRecommendationController creates a new RecommendationController
func NewRecommendationController(recommendations *service.RecommendationService) *RecommendationController {
	return &RecommendationController{
		recommendations: recommendations,
	}
}

// Recommend handles POST /recommendations
// Picks one catalog product for the given party size and dietary
// preference, using the AI model when configured and a deterministic
// heuristic otherwise
//
// Example request:
//
//	{"guests": "5-10 personas", "preference": "Vegano"}
func (c *RecommendationController) Recommend(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Recommend: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ Recommend: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Recommend: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	recommendation, err := c.recommendations.Recommend(r.Context(), req)
	if err != nil {
		log.Printf("❌ Recommend: Error building recommendation: %v", err)
		http.Error(w, "Failed to build recommendation", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Recommend: Recommended %s (%s, source=%s)", recommendation.Product.Name, recommendation.Product.ID, recommendation.Source)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(recommendation); err != nil {
		log.Printf("❌ Recommend: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
