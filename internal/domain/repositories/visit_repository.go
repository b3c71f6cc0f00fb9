package repositories

import (
	"context"
	"time"

	"github.com/loyaltyscan/backend/internal/domain/entities"
)

// VisitRepository defines the interface for visit record operations. The
// collection is append-only: there is no update or delete.
type VisitRepository interface {
	// Create appends a new visit record
	Create(ctx context.Context, visit *entities.Visit) error

	// ExistsInWindow reports whether the customer already has a visit at the
	// shop whose recorded instant falls in [from, to)
	ExistsInWindow(ctx context.Context, customerID, shopID string, from, to time.Time) (bool, error)

	// ListByCustomerAndShop retrieves the customer's visits at a shop whose
	// recorded instant falls in [from, to), ordered by recorded time
	ListByCustomerAndShop(ctx context.Context, customerID, shopID string, from, to time.Time) ([]*entities.Visit, error)

	// ListByCustomer retrieves all visits recorded by a customer, most
	// recent first
	ListByCustomer(ctx context.Context, customerID string) ([]*entities.Visit, error)

	// CountByShop returns the total number of visits recorded at a shop
	CountByShop(ctx context.Context, shopID string) (int, error)

	// ListCustomersByShop returns the distinct customer IDs with a visit at
	// the shop whose recorded instant falls in [from, to)
	ListCustomersByShop(ctx context.Context, shopID string, from, to time.Time) ([]string, error)
}
