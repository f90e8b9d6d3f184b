package models

import (
	"encoding/json"
	"fmt"
)

// CartLine is one product in a cart. Quantity is always >= 1: decrementing
// to zero removes the line instead of storing a non-positive quantity.
type CartLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns unit price times quantity for this line.
func (l CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart holds the lines of a single session, in insertion order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Lines: []CartLine{}}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

// Find returns a pointer to the line for the given product id, or nil.
func (c *Cart) Find(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Add adds quantity units of the product to the cart, incrementing the
// existing line if the product is already present.
func (c *Cart) Add(p Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}
	if line := c.Find(p.ID); line != nil {
		line.Quantity += quantity
		return nil
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})
	return nil
}

// UpdateQuantity applies a signed delta to the line's quantity. When the
// result drops to zero or below the line is removed. Returns the removed
// flag and whether the product was found.
func (c *Cart) UpdateQuantity(productID string, delta int) (removed bool, found bool) {
	line := c.Find(productID)
	if line == nil {
		return false, false
	}
	line.Quantity += delta
	if line.Quantity <= 0 {
		c.Remove(productID)
		return true, true
	}
	return false, true
}

// Remove deletes the line for the given product id. Returns whether the
// product was present.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Lines = c.Lines[:0]
}

// EncodeCart serializes a cart for persistence.
func EncodeCart(c *Cart) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart: %w", err)
	}
	return string(data), nil
}

// DecodeCart parses a persisted cart payload. Corrupt payloads and payloads
// containing invalid lines (empty id, non-positive quantity, negative
// price) yield an error; callers fall back to an empty cart.
func DecodeCart(payload string) (*Cart, error) {
	var cart Cart
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart payload: %w", err)
	}
	for _, l := range cart.Lines {
		if l.ProductID == "" || l.Quantity <= 0 || l.UnitPrice < 0 {
			return nil, fmt.Errorf("invalid cart line for product %q (qty=%d, price=%d)", l.ProductID, l.Quantity, l.UnitPrice)
		}
	}
	if cart.Lines == nil {
		cart.Lines = []CartLine{}
	}
	return &cart, nil
}
