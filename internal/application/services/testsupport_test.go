package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

// In-memory fakes shared by the service tests. They implement the repository
// interfaces over slices and maps so tests can drive real sequences of
// operations without a database.

type fakeVisitRepo struct {
	mu     sync.Mutex
	visits []*entities.Visit
	// failCreate simulates storage being unavailable on append.
	failCreate error
}

func (r *fakeVisitRepo) Create(ctx context.Context, visit *entities.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.visits = append(r.visits, visit)
	return nil
}

func (r *fakeVisitRepo) ExistsInWindow(ctx context.Context, customerID, shopID string, from, to time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.visits {
		if v.CustomerID == customerID && v.ShopID == shopID && inWindow(v.RecordedAt, from, to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVisitRepo) ListByCustomerAndShop(ctx context.Context, customerID, shopID string, from, to time.Time) ([]*entities.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Visit
	for _, v := range r.visits {
		if v.CustomerID == customerID && v.ShopID == shopID && inWindow(v.RecordedAt, from, to) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (r *fakeVisitRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entities.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Visit
	for _, v := range r.visits {
		if v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (r *fakeVisitRepo) CountByShop(ctx context.Context, shopID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, v := range r.visits {
		if v.ShopID == shopID {
			count++
		}
	}
	return count, nil
}

func (r *fakeVisitRepo) ListCustomersByShop(ctx context.Context, shopID string, from, to time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, v := range r.visits {
		if v.ShopID == shopID && inWindow(v.RecordedAt, from, to) {
			if _, ok := seen[v.CustomerID]; !ok {
				seen[v.CustomerID] = struct{}{}
				out = append(out, v.CustomerID)
			}
		}
	}
	return out, nil
}

func (r *fakeVisitRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

type fakeShopRepo struct {
	mu    sync.Mutex
	shops map[string]*entities.Shop
}

func newFakeShopRepo(shops ...*entities.Shop) *fakeShopRepo {
	r := &fakeShopRepo{shops: map[string]*entities.Shop{}}
	for _, s := range shops {
		r.shops[s.ID] = s
	}
	return r
}

func (r *fakeShopRepo) Create(ctx context.Context, shop *entities.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *shop
	r.shops[shop.ID] = &copied
	return nil
}

func (r *fakeShopRepo) GetByID(ctx context.Context, id string) (*entities.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shop, ok := r.shops[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("shop with id " + id + " not found")
	}
	copied := *shop
	return &copied, nil
}

func (r *fakeShopRepo) Update(ctx context.Context, shop *entities.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shops[shop.ID]; !ok {
		return apperrors.NewNotFoundError("shop with id " + shop.ID + " not found")
	}
	copied := *shop
	r.shops[shop.ID] = &copied
	return nil
}

func (r *fakeShopRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Shop
	for _, s := range r.shops {
		if s.OwnerID == ownerID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeShopRepo) ListByVerification(ctx context.Context, states ...entities.VerificationState) ([]*entities.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Shop
	for _, s := range r.shops {
		for _, state := range states {
			if s.Verification == state {
				copied := *s
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entities.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user with id " + id + " not found")
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu     sync.Mutex
	userID string
}

func (r *fakeSessionRepo) Set(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = userID
	return nil
}

func (r *fakeSessionRepo) Get(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID, nil
}

func (r *fakeSessionRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = ""
	return nil
}

type fakeEventBus struct {
	mu        sync.Mutex
	published []*entities.ShopEvent
}

func (b *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.ShopEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ShopEvent, error) {
	ch := make(chan *entities.ShopEvent)
	return ch, nil
}

func (b *fakeEventBus) Close() error { return nil }

func (b *fakeEventBus) events() []*entities.ShopEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.ShopEvent(nil), b.published...)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss for key " + key)
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.deleted = append(c.deleted, pattern)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

func (c *fakeCache) deletions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deleted...)
}
