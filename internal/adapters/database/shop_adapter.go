package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	"github.com/loyaltyscan/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

var shopColumns = []interface{}{
	"id", "name", "category", "owner_id", "contact_email",
	"verification", "license_number", "secret_code",
	"created_at", "updated_at",
}

// ShopAdapter implements the ShopRepository interface
type ShopAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewShopAdapter creates a new shop adapter
func NewShopAdapter(client *postgres.Client) repositories.ShopRepository {
	return &ShopAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new shop
func (a *ShopAdapter) Create(ctx context.Context, shop *entities.Shop) error {
	record := goqu.Record{
		"id":             shop.ID,
		"name":           shop.Name,
		"category":       shop.Category,
		"owner_id":       shop.OwnerID,
		"contact_email":  shop.ContactEmail,
		"verification":   shop.Verification,
		"license_number": shop.LicenseNumber,
		"secret_code":    shop.SecretCode,
		"created_at":     shop.CreatedAt,
		"updated_at":     shop.UpdatedAt,
	}

	query, args, err := a.db.Insert("shops").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create shop", err)
	}

	return nil
}

// GetByID retrieves a shop by ID
func (a *ShopAdapter) GetByID(ctx context.Context, id string) (*entities.Shop, error) {
	query, args, err := a.db.Select(shopColumns...).From("shops").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	shop, err := scanShop(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get shop", err)
	}

	return shop, nil
}

// Update persists a shop's mutable verification fields. The secret code is
// fixed at creation and deliberately not part of the update set.
func (a *ShopAdapter) Update(ctx context.Context, shop *entities.Shop) error {
	shop.UpdatedAt = time.Now()

	record := goqu.Record{
		"verification":   shop.Verification,
		"license_number": shop.LicenseNumber,
		"updated_at":     shop.UpdatedAt,
	}

	query, args, err := a.db.Update("shops").
		Set(record).
		Where(goqu.Ex{"id": shop.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update shop", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", shop.ID))
	}

	return nil
}

// ListByOwner retrieves all shops registered by an owner
func (a *ShopAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error) {
	query, args, err := a.db.Select(shopColumns...).From("shops").
		Where(goqu.Ex{"owner_id": ownerID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryShops(ctx, query, args)
}

// ListByVerification retrieves shops in any of the given states
func (a *ShopAdapter) ListByVerification(ctx context.Context, states ...entities.VerificationState) ([]*entities.Shop, error) {
	stateValues := make([]interface{}, len(states))
	for i, s := range states {
		stateValues[i] = s
	}

	query, args, err := a.db.Select(shopColumns...).From("shops").
		Where(goqu.Ex{"verification": stateValues}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryShops(ctx, query, args)
}

func (a *ShopAdapter) queryShops(ctx context.Context, query string, args []interface{}) ([]*entities.Shop, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list shops", err)
	}
	defer rows.Close()

	var shops []*entities.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan shop", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate shops", err)
	}

	return shops, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShop(row rowScanner) (*entities.Shop, error) {
	shop := &entities.Shop{}
	var licenseNumber sql.NullString

	err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.Category,
		&shop.OwnerID,
		&shop.ContactEmail,
		&shop.Verification,
		&licenseNumber,
		&shop.SecretCode,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	shop.LicenseNumber = licenseNumber.String
	return shop, nil
}
