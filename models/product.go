package models

// Product represents a product in the catalog snapshot.
// Prices are integer ARS (no decimals). A product with Stock <= 0 is
// shown as sold out and cannot be added to a cart.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"image"`
	Stock       int    `json:"stock"`
	IsPromo     bool   `json:"isPromo"`
	Featured    bool   `json:"featured"`
}

// InStock reports whether the product can still be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}
