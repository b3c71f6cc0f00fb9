package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltyscan/backend/internal/adapters/database"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := c.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss")
	}
	return value, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

type countingShopRepo struct {
	shop *entities.Shop
	gets int
}

func (r *countingShopRepo) Create(ctx context.Context, shop *entities.Shop) error {
	r.shop = shop
	return nil
}

func (r *countingShopRepo) GetByID(ctx context.Context, id string) (*entities.Shop, error) {
	r.gets++
	if r.shop == nil || r.shop.ID != id {
		return nil, apperrors.NewNotFoundError("shop not found")
	}
	copied := *r.shop
	return &copied, nil
}

func (r *countingShopRepo) Update(ctx context.Context, shop *entities.Shop) error {
	r.shop = shop
	return nil
}

func (r *countingShopRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error) {
	if r.shop == nil || r.shop.OwnerID != ownerID {
		return nil, nil
	}
	copied := *r.shop
	return []*entities.Shop{&copied}, nil
}

func (r *countingShopRepo) ListByVerification(ctx context.Context, states ...entities.VerificationState) ([]*entities.Shop, error) {
	return nil, nil
}

func fixtureShop() *entities.Shop {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &entities.Shop{
		ID:           "shop-1",
		Name:         "Sunny's Pizza",
		Category:     entities.ShopCategoryFastFood,
		OwnerID:      "owner-1",
		ContactEmail: "sunny@example.com",
		Verification: entities.VerificationUnverified,
		SecretCode:   "4521",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCachedShopAdapter_GetByID(t *testing.T) {
	t.Run("second read is served from cache", func(t *testing.T) {
		repo := &countingShopRepo{shop: fixtureShop()}
		adapter := database.NewCachedShopAdapter(repo, newMemoryCache())

		first, err := adapter.GetByID(context.Background(), "shop-1")
		require.NoError(t, err)

		second, err := adapter.GetByID(context.Background(), "shop-1")
		require.NoError(t, err)

		assert.Equal(t, 1, repo.gets)
		assert.Equal(t, first.Name, second.Name)
	})

	t.Run("cache hits keep the secret code", func(t *testing.T) {
		repo := &countingShopRepo{shop: fixtureShop()}
		adapter := database.NewCachedShopAdapter(repo, newMemoryCache())

		_, err := adapter.GetByID(context.Background(), "shop-1")
		require.NoError(t, err)

		cached, err := adapter.GetByID(context.Background(), "shop-1")
		require.NoError(t, err)
		assert.Equal(t, "4521", cached.SecretCode)
	})

	t.Run("update invalidates the cached shop", func(t *testing.T) {
		repo := &countingShopRepo{shop: fixtureShop()}
		adapter := database.NewCachedShopAdapter(repo, newMemoryCache())

		shop, err := adapter.GetByID(context.Background(), "shop-1")
		require.NoError(t, err)

		shop.Verification = entities.VerificationPending
		require.NoError(t, adapter.Update(context.Background(), shop))

		fresh, err := adapter.GetByID(context.Background(), "shop-1")
		require.NoError(t, err)
		assert.Equal(t, entities.VerificationPending, fresh.Verification)
		assert.Equal(t, 2, repo.gets)
	})
}

func TestCachedShopAdapter_ListByOwner(t *testing.T) {
	repo := &countingShopRepo{shop: fixtureShop()}
	cache := newMemoryCache()
	adapter := database.NewCachedShopAdapter(repo, cache)

	shops, err := adapter.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, shops, 1)

	cached, err := adapter.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "4521", cached[0].SecretCode)
}
