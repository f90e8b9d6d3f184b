package repository

import (
	"context"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

// SessionRepositoryInterface defines the contract for per-session state
// persistence: the cart and the Benavidez-neighbor preference flag.
type SessionRepositoryInterface interface {
	EnsureSchema(ctx context.Context) error
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
	GetPreference(ctx context.Context, sessionID string) (bool, error)
	SavePreference(ctx context.Context, sessionID string, benavidezNeighbor bool) error
}
