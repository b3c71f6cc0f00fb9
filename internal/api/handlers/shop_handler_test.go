package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loyaltyscan/backend/internal/api/handlers"
	"github.com/loyaltyscan/backend/internal/application/services"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

type stubShopService struct {
	shop *entities.Shop
	err  error

	registered []services.RegisterShopInput
}

func (s *stubShopService) Register(ctx context.Context, input services.RegisterShopInput) (*entities.Shop, error) {
	s.registered = append(s.registered, input)
	return s.shop, s.err
}

func (s *stubShopService) GetByID(ctx context.Context, shopID string) (*entities.Shop, error) {
	return s.shop, s.err
}

func (s *stubShopService) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entities.Shop{s.shop}, nil
}

func (s *stubShopService) SubmitLicense(ctx context.Context, shopID, ownerID, license string) (*entities.Shop, error) {
	return s.shop, s.err
}

func testShop() *entities.Shop {
	return &entities.Shop{
		ID:           "shop-1",
		Name:         "Sunny's Pizza",
		Category:     entities.ShopCategoryFastFood,
		OwnerID:      "owner-1",
		Verification: entities.VerificationUnverified,
		SecretCode:   "4521",
	}
}

func TestShopHandler_RegisterShop(t *testing.T) {
	t.Run("creates a shop", func(t *testing.T) {
		service := &stubShopService{shop: testShop()}
		handler := handlers.NewShopHandler(service)

		body := `{"name":"Sunny's Pizza","category":"fast-food","owner_id":"owner-1","contact_email":"sunny@example.com"}`
		req := httptest.NewRequest("POST", "/api/shops", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.RegisterShop(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, service.registered, 1)
		assert.Equal(t, entities.ShopCategory("fast-food"), service.registered[0].Category)
	})

	t.Run("secret code never appears in the response", func(t *testing.T) {
		service := &stubShopService{shop: testShop()}
		handler := handlers.NewShopHandler(service)

		body := `{"name":"Sunny's Pizza","category":"fast-food","owner_id":"owner-1","contact_email":"sunny@example.com"}`
		req := httptest.NewRequest("POST", "/api/shops", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.RegisterShop(w, req)

		assert.NotContains(t, w.Body.String(), "4521")
	})

	t.Run("validation errors map to 400", func(t *testing.T) {
		service := &stubShopService{err: apperrors.NewValidationError("shop name is required")}
		handler := handlers.NewShopHandler(service)

		req := httptest.NewRequest("POST", "/api/shops", strings.NewReader(`{}`))
		w := httptest.NewRecorder()

		handler.RegisterShop(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-owner registration maps to 401", func(t *testing.T) {
		service := &stubShopService{err: apperrors.NewUnauthorizedError("only owners can register shops")}
		handler := handlers.NewShopHandler(service)

		body := `{"name":"Sunny's Pizza","category":"fast-food","owner_id":"cust-1","contact_email":"sunny@example.com"}`
		req := httptest.NewRequest("POST", "/api/shops", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.RegisterShop(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed payload maps to 400", func(t *testing.T) {
		handler := handlers.NewShopHandler(&stubShopService{})

		req := httptest.NewRequest("POST", "/api/shops", strings.NewReader("not json"))
		w := httptest.NewRecorder()

		handler.RegisterShop(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestShopHandler_GetShop(t *testing.T) {
	t.Run("returns the shop", func(t *testing.T) {
		service := &stubShopService{shop: testShop()}
		handler := handlers.NewShopHandler(service)

		req := httptest.NewRequest("GET", "/api/shops/shop-1", nil)
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.GetShop(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"scan_token":"loyalty_scan:shop-1"`)

		var response entities.Shop
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Sunny's Pizza", response.Name)
	})

	t.Run("unknown shop maps to 404", func(t *testing.T) {
		service := &stubShopService{err: apperrors.NewNotFoundError("shop not found")}
		handler := handlers.NewShopHandler(service)

		req := httptest.NewRequest("GET", "/api/shops/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		handler.GetShop(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestShopHandler_ListShops(t *testing.T) {
	t.Run("requires the owner parameter", func(t *testing.T) {
		handler := handlers.NewShopHandler(&stubShopService{})

		req := httptest.NewRequest("GET", "/api/shops", nil)
		w := httptest.NewRecorder()

		handler.ListShops(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lists owner shops with a count", func(t *testing.T) {
		service := &stubShopService{shop: testShop()}
		handler := handlers.NewShopHandler(service)

		req := httptest.NewRequest("GET", "/api/shops?owner=owner-1", nil)
		w := httptest.NewRecorder()

		handler.ListShops(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, float64(1), response["count"])
	})
}

func TestShopHandler_SubmitLicense(t *testing.T) {
	t.Run("submits the license", func(t *testing.T) {
		shop := testShop()
		shop.Verification = entities.VerificationPending
		shop.LicenseNumber = "LIC-2041"
		service := &stubShopService{shop: shop}
		handler := handlers.NewShopHandler(service)

		body := `{"owner_id":"owner-1","license_number":"LIC-2041"}`
		req := httptest.NewRequest("POST", "/api/shops/shop-1/license", strings.NewReader(body))
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.SubmitLicense(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pending")
	})

	t.Run("resubmission conflict maps to 409", func(t *testing.T) {
		service := &stubShopService{err: apperrors.NewConflictError("shop is pending")}
		handler := handlers.NewShopHandler(service)

		body := `{"owner_id":"owner-1","license_number":"LIC-2041"}`
		req := httptest.NewRequest("POST", "/api/shops/shop-1/license", strings.NewReader(body))
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.SubmitLicense(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
