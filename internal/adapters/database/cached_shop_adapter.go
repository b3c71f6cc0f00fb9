package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/providers"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
)

// CachedShopAdapter wraps a ShopRepository with read-through caching. Shops
// change rarely (only verification fields mutate), so reads are served from
// cache and writes invalidate.
type CachedShopAdapter struct {
	adapter repositories.ShopRepository
	cache   providers.CacheProvider
}

// NewCachedShopAdapter creates a new cached shop adapter
func NewCachedShopAdapter(adapter repositories.ShopRepository, cache providers.CacheProvider) repositories.ShopRepository {
	return &CachedShopAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	shopByIDTTL = 300 // 5 minutes for single shop
	shopListTTL = 120 // 2 minutes for owner lists
)

// cachedShop is the cache wire form. The entity hides the secret code from
// API responses, but a cache hit must still carry it or secret checks against
// cached shops would always fail.
type cachedShop struct {
	Shop       *entities.Shop `json:"shop"`
	SecretCode string         `json:"secret_code"`
}

func toCachedShop(shop *entities.Shop) cachedShop {
	return cachedShop{Shop: shop, SecretCode: shop.SecretCode}
}

func (c cachedShop) entity() *entities.Shop {
	c.Shop.SecretCode = c.SecretCode
	return c.Shop
}

func shopCacheKey(id string) string {
	return fmt.Sprintf("shop:%s", id)
}

func ownerShopsCacheKey(ownerID string) string {
	return fmt.Sprintf("shops:owner:%s", ownerID)
}

// GetByID retrieves a shop by ID with caching
func (a *CachedShopAdapter) GetByID(ctx context.Context, id string) (*entities.Shop, error) {
	cacheKey := shopCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var entry cachedShop
		if err := json.Unmarshal(cached, &entry); err == nil && entry.Shop != nil {
			return entry.entity(), nil
		}
	}

	shop, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(toCachedShop(shop)); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, shopByIDTTL); err != nil {
			log.Warn().Err(err).Str("shop_id", id).Msg("failed to cache shop")
		}
	}

	return shop, nil
}

// Create creates a new shop and invalidates the owner's list
func (a *CachedShopAdapter) Create(ctx context.Context, shop *entities.Shop) error {
	if err := a.adapter.Create(ctx, shop); err != nil {
		return err
	}
	a.invalidate(ctx, shop)
	return nil
}

// Update persists verification changes and invalidates affected entries
func (a *CachedShopAdapter) Update(ctx context.Context, shop *entities.Shop) error {
	if err := a.adapter.Update(ctx, shop); err != nil {
		return err
	}
	a.invalidate(ctx, shop)
	return nil
}

// ListByOwner retrieves an owner's shops with caching
func (a *CachedShopAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error) {
	cacheKey := ownerShopsCacheKey(ownerID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var entries []cachedShop
		if err := json.Unmarshal(cached, &entries); err == nil {
			shops := make([]*entities.Shop, 0, len(entries))
			for _, entry := range entries {
				if entry.Shop != nil {
					shops = append(shops, entry.entity())
				}
			}
			return shops, nil
		}
	}

	shops, err := a.adapter.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	entries := make([]cachedShop, 0, len(shops))
	for _, shop := range shops {
		entries = append(entries, toCachedShop(shop))
	}
	if data, err := json.Marshal(entries); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, shopListTTL); err != nil {
			log.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to cache owner shops")
		}
	}

	return shops, nil
}

// ListByVerification always hits the underlying adapter. The admin review
// queue must reflect submissions immediately.
func (a *CachedShopAdapter) ListByVerification(ctx context.Context, states ...entities.VerificationState) ([]*entities.Shop, error) {
	return a.adapter.ListByVerification(ctx, states...)
}

func (a *CachedShopAdapter) invalidate(ctx context.Context, shop *entities.Shop) {
	if err := a.cache.Delete(ctx, shopCacheKey(shop.ID)); err != nil {
		log.Warn().Err(err).Str("shop_id", shop.ID).Msg("failed to invalidate shop cache")
	}
	if err := a.cache.Delete(ctx, ownerShopsCacheKey(shop.OwnerID)); err != nil {
		log.Warn().Err(err).Str("owner_id", shop.OwnerID).Msg("failed to invalidate owner shops cache")
	}
}
