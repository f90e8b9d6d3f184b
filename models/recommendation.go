package models

// Recommendation sources
const (
	RecommendationSourceAI       = "ai"
	RecommendationSourceFallback = "fallback"
)

// RecommendationRequest is the body for POST /recommendations.
// Example: {"guests": "5-10 personas", "preference": "Vegano"}
type RecommendationRequest struct {
	Guests     string `json:"guests"`
	Preference string `json:"preference"`
}

// Recommendation is a product pick plus a short persuasive reason. Source
// tells whether the AI produced it or the rule-based fallback did.
type Recommendation struct {
	Product Product `json:"product"`
	Reason  string  `json:"reason"`
	Source  string  `json:"source"`
}
