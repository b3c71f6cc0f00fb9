package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	"github.com/loyaltyscan/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

var visitColumns = []interface{}{
	"id", "shop_id", "customer_id", "recorded_at", "transaction_ref", "created_at",
}

// VisitAdapter implements the VisitRepository interface. Visits are
// append-only; the adapter exposes no update or delete.
type VisitAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVisitAdapter creates a new visit adapter
func NewVisitAdapter(client *postgres.Client) repositories.VisitRepository {
	return &VisitAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create appends a new visit record
func (a *VisitAdapter) Create(ctx context.Context, visit *entities.Visit) error {
	record := goqu.Record{
		"id":              visit.ID,
		"shop_id":         visit.ShopID,
		"customer_id":     visit.CustomerID,
		"recorded_at":     visit.RecordedAt,
		"transaction_ref": visit.TransactionRef,
		"created_at":      visit.CreatedAt,
	}

	query, args, err := a.db.Insert("visits").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create visit", err)
	}

	return nil
}

// ExistsInWindow reports whether the customer already has a visit at the
// shop whose recorded instant falls in [from, to)
func (a *VisitAdapter) ExistsInWindow(ctx context.Context, customerID, shopID string, from, to time.Time) (bool, error) {
	query, args, err := a.db.Select(goqu.COUNT("id")).From("visits").
		Where(
			goqu.Ex{"customer_id": customerID, "shop_id": shopID},
			goqu.I("recorded_at").Gte(from),
			goqu.I("recorded_at").Lt(to),
		).
		ToSQL()

	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check visit existence", err)
	}

	return count > 0, nil
}

// ListByCustomerAndShop retrieves the customer's visits at a shop whose
// recorded instant falls in [from, to), ordered by recorded time
func (a *VisitAdapter) ListByCustomerAndShop(ctx context.Context, customerID, shopID string, from, to time.Time) ([]*entities.Visit, error) {
	query, args, err := a.db.Select(visitColumns...).From("visits").
		Where(
			goqu.Ex{"customer_id": customerID, "shop_id": shopID},
			goqu.I("recorded_at").Gte(from),
			goqu.I("recorded_at").Lt(to),
		).
		Order(goqu.I("recorded_at").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryVisits(ctx, query, args)
}

// ListByCustomer retrieves all visits recorded by a customer, most recent first
func (a *VisitAdapter) ListByCustomer(ctx context.Context, customerID string) ([]*entities.Visit, error) {
	query, args, err := a.db.Select(visitColumns...).From("visits").
		Where(goqu.Ex{"customer_id": customerID}).
		Order(goqu.I("recorded_at").Desc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryVisits(ctx, query, args)
}

// CountByShop returns the total number of visits recorded at a shop
func (a *VisitAdapter) CountByShop(ctx context.Context, shopID string) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("id")).From("visits").
		Where(goqu.Ex{"shop_id": shopID}).
		ToSQL()

	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count visits", err)
	}

	return count, nil
}

// ListCustomersByShop returns the distinct customer IDs with a visit at the
// shop whose recorded instant falls in [from, to)
func (a *VisitAdapter) ListCustomersByShop(ctx context.Context, shopID string, from, to time.Time) ([]string, error) {
	query, args, err := a.db.Select(goqu.DISTINCT("customer_id")).From("visits").
		Where(
			goqu.Ex{"shop_id": shopID},
			goqu.I("recorded_at").Gte(from),
			goqu.I("recorded_at").Lt(to),
		).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list customers", err)
	}
	defer rows.Close()

	var customerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan customer id", err)
		}
		customerIDs = append(customerIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate customers", err)
	}

	return customerIDs, nil
}

func (a *VisitAdapter) queryVisits(ctx context.Context, query string, args []interface{}) ([]*entities.Visit, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list visits", err)
	}
	defer rows.Close()

	var visits []*entities.Visit
	for rows.Next() {
		visit := &entities.Visit{}
		var transactionRef sql.NullString

		err := rows.Scan(
			&visit.ID,
			&visit.ShopID,
			&visit.CustomerID,
			&visit.RecordedAt,
			&transactionRef,
			&visit.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan visit", err)
		}

		visit.TransactionRef = transactionRef.String
		visits = append(visits, visit)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate visits", err)
	}

	return visits, nil
}
