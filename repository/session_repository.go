package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/db"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
)

// SessionRepository persists session carts and preferences in PostgreSQL.
// Cart payloads are stored as JSON text; a corrupt payload is discarded and
// replaced with an empty cart instead of failing the session.
type SessionRepository struct{}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Ensure SessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*SessionRepository)(nil)

// EnsureSchema creates the session tables if they don't exist
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS session_carts (
			session_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS session_preferences (
			session_id TEXT PRIMARY KEY,
			benavidez_neighbor BOOLEAN NOT NULL DEFAULT false,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure session schema: %w", err)
		}
	}
	return nil
}

// GetCart loads the cart stored for the session. Missing rows and corrupt
// payloads both yield an empty cart; corruption is logged and the stored
// row dropped so it cannot poison later requests.
func (r *SessionRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	var payload string
	query := `SELECT payload FROM session_carts WHERE session_id = $1`
	err := db.DB.QueryRowContext(ctx, query, sessionID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for session %s: %w", sessionID, err)
	}

	cart, err := models.DecodeCart(payload)
	if err != nil {
		log.Printf("⚠️  GetCart: discarding corrupt cart payload for session %s: %v", sessionID, err)
		if delErr := r.DeleteCart(ctx, sessionID); delErr != nil {
			log.Printf("⚠️  GetCart: failed to drop corrupt cart row: %v", delErr)
		}
		return models.NewCart(), nil
	}
	return cart, nil
}

// SaveCart upserts the cart payload for the session
func (r *SessionRepository) SaveCart(ctx context.Context, sessionID string, cart *models.Cart) error {
	payload, err := models.EncodeCart(cart)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO session_carts (session_id, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`
	if _, err := db.DB.ExecContext(ctx, query, sessionID, payload); err != nil {
		return fmt.Errorf("failed to save cart for session %s: %w", sessionID, err)
	}
	return nil
}

// DeleteCart removes the stored cart for the session
func (r *SessionRepository) DeleteCart(ctx context.Context, sessionID string) error {
	query := `DELETE FROM session_carts WHERE session_id = $1`
	if _, err := db.DB.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete cart for session %s: %w", sessionID, err)
	}
	return nil
}

// GetPreference returns the Benavidez-neighbor flag for the session.
// Missing rows default to false.
func (r *SessionRepository) GetPreference(ctx context.Context, sessionID string) (bool, error) {
	var flag bool
	query := `SELECT benavidez_neighbor FROM session_preferences WHERE session_id = $1`
	err := db.DB.QueryRowContext(ctx, query, sessionID).Scan(&flag)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load preference for session %s: %w", sessionID, err)
	}
	return flag, nil
}

// SavePreference upserts the Benavidez-neighbor flag for the session
func (r *SessionRepository) SavePreference(ctx context.Context, sessionID string, benavidezNeighbor bool) error {
	query := `
		INSERT INTO session_preferences (session_id, benavidez_neighbor, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id)
		DO UPDATE SET benavidez_neighbor = EXCLUDED.benavidez_neighbor, updated_at = now()
	`
	if _, err := db.DB.ExecContext(ctx, query, sessionID, benavidezNeighbor); err != nil {
		return fmt.Errorf("failed to save preference for session %s: %w", sessionID, err)
	}
	return nil
}
