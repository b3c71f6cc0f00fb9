package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loyaltyscan/backend/internal/api/handlers"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

type stubReviewService struct {
	shop *entities.Shop
	err  error

	actions []string
}

func (s *stubReviewService) Approve(ctx context.Context, shopID, adminID string) (*entities.Shop, error) {
	s.actions = append(s.actions, "approve:"+shopID+":"+adminID)
	return s.shop, s.err
}

func (s *stubReviewService) Reject(ctx context.Context, shopID, adminID string) (*entities.Shop, error) {
	s.actions = append(s.actions, "reject:"+shopID+":"+adminID)
	return s.shop, s.err
}

func (s *stubReviewService) Revoke(ctx context.Context, shopID, adminID string) (*entities.Shop, error) {
	s.actions = append(s.actions, "revoke:"+shopID+":"+adminID)
	return s.shop, s.err
}

func (s *stubReviewService) ListForReview(ctx context.Context, adminID string) ([]*entities.Shop, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entities.Shop{s.shop}, nil
}

func TestAdminHandler_ApproveShop(t *testing.T) {
	t.Run("approves via the service", func(t *testing.T) {
		shop := testShop()
		shop.Verification = entities.VerificationVerified
		service := &stubReviewService{shop: shop}
		handler := handlers.NewAdminHandler(service)

		req := httptest.NewRequest("POST", "/api/admin/shops/shop-1/approve", strings.NewReader(`{"admin_id":"admin-1"}`))
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.ApproveShop(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"approve:shop-1:admin-1"}, service.actions)
		assert.Contains(t, w.Body.String(), "verified")
	})

	t.Run("missing admin_id maps to 400", func(t *testing.T) {
		handler := handlers.NewAdminHandler(&stubReviewService{})

		req := httptest.NewRequest("POST", "/api/admin/shops/shop-1/approve", strings.NewReader(`{}`))
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.ApproveShop(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-admin caller maps to 401", func(t *testing.T) {
		service := &stubReviewService{err: apperrors.NewUnauthorizedError("only admins can review shops")}
		handler := handlers.NewAdminHandler(service)

		req := httptest.NewRequest("POST", "/api/admin/shops/shop-1/approve", strings.NewReader(`{"admin_id":"owner-1"}`))
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.ApproveShop(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong-state transition maps to 409", func(t *testing.T) {
		service := &stubReviewService{err: apperrors.NewConflictError("cannot approve an unverified shop")}
		handler := handlers.NewAdminHandler(service)

		req := httptest.NewRequest("POST", "/api/admin/shops/shop-1/approve", strings.NewReader(`{"admin_id":"admin-1"}`))
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.ApproveShop(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAdminHandler_RejectAndRevoke(t *testing.T) {
	service := &stubReviewService{shop: testShop()}
	handler := handlers.NewAdminHandler(service)

	req := httptest.NewRequest("POST", "/api/admin/shops/shop-1/reject", strings.NewReader(`{"admin_id":"admin-1"}`))
	req.SetPathValue("id", "shop-1")
	w := httptest.NewRecorder()
	handler.RejectShop(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("POST", "/api/admin/shops/shop-1/revoke", strings.NewReader(`{"admin_id":"admin-1"}`))
	req.SetPathValue("id", "shop-1")
	w = httptest.NewRecorder()
	handler.RevokeShop(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"reject:shop-1:admin-1", "revoke:shop-1:admin-1"}, service.actions)
}

func TestAdminHandler_ListReviewShops(t *testing.T) {
	t.Run("requires the admin parameter", func(t *testing.T) {
		handler := handlers.NewAdminHandler(&stubReviewService{})

		req := httptest.NewRequest("GET", "/api/admin/shops", nil)
		w := httptest.NewRecorder()

		handler.ListReviewShops(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lists shops under review", func(t *testing.T) {
		service := &stubReviewService{shop: testShop()}
		handler := handlers.NewAdminHandler(service)

		req := httptest.NewRequest("GET", "/api/admin/shops?admin=admin-1", nil)
		w := httptest.NewRecorder()

		handler.ListReviewShops(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Sunny's Pizza")
	})
}
