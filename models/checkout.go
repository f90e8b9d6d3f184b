package models

// UserData holds the fields the customer fills in the checkout form.
// Created fresh per checkout attempt; never persisted.
// Example: {"name": "Ana López", "address": "Cabildo 676", "zone": "3"}
type UserData struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Zone    string `json:"zone"`
}

// OrderLine is one line of the structured order breakdown returned to the
// drawer alongside the composed message.
type OrderLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// OrderSummary is the checkout response: the resolved pricing, the line
// breakdown, the composed WhatsApp message, and the deep link the frontend
// opens in a new tab.
type OrderSummary struct {
	Lines       []OrderLine   `json:"lines"`
	Pricing     PricingResult `json:"pricing"`
	Message     string        `json:"message"`
	WhatsAppURL string        `json:"whatsappUrl"`
}

// AddItemRequest is the body for POST /sessions/{id}/cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateQuantityRequest is the body for PATCH /sessions/{id}/cart/items/{productId}.
// Delta is signed; a decrement that reaches zero removes the line.
type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

// PreferenceRequest is the body for PUT /sessions/{id}/preference.
type PreferenceRequest struct {
	BenavidezNeighbor bool `json:"benavidezNeighbor"`
}
