package repositories

import (
	"context"

	"github.com/loyaltyscan/backend/internal/domain/entities"
)

// ShopRepository defines the interface for shop data operations
type ShopRepository interface {
	// Create creates a new shop
	Create(ctx context.Context, shop *entities.Shop) error

	// GetByID retrieves a shop by ID
	GetByID(ctx context.Context, id string) (*entities.Shop, error)

	// Update persists a shop's mutable verification fields
	Update(ctx context.Context, shop *entities.Shop) error

	// ListByOwner retrieves all shops registered by an owner
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error)

	// ListByVerification retrieves shops in any of the given states
	ListByVerification(ctx context.Context, states ...entities.VerificationState) ([]*entities.Shop, error)
}
