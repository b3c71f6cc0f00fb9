package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/loyaltyscan/backend/internal/domain/entities"
)

// ShopReviewService defines the admin review operations used by the handler
type ShopReviewService interface {
	Approve(ctx context.Context, shopID, adminID string) (*entities.Shop, error)
	Reject(ctx context.Context, shopID, adminID string) (*entities.Shop, error)
	Revoke(ctx context.Context, shopID, adminID string) (*entities.Shop, error)
	ListForReview(ctx context.Context, adminID string) ([]*entities.Shop, error)
}

// AdminHandler handles shop review HTTP requests
type AdminHandler struct {
	service ShopReviewService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service ShopReviewService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

type reviewRequest struct {
	AdminID string `json:"admin_id"`
}

// ApproveShop handles POST /api/admin/shops/:id/approve
func (h *AdminHandler) ApproveShop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

// RejectShop handles POST /api/admin/shops/:id/reject
func (h *AdminHandler) RejectShop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

// RevokeShop handles POST /api/admin/shops/:id/revoke
func (h *AdminHandler) RevokeShop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Revoke)
}

func (h *AdminHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, shopID, adminID string) (*entities.Shop, error)) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.AdminID == "" {
		respondWithError(w, http.StatusBadRequest, "admin_id is required")
		return
	}

	shop, err := apply(r.Context(), shopID, payload.AdminID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, shop)
}

// ListReviewShops handles GET /api/admin/shops?admin=
func (h *AdminHandler) ListReviewShops(w http.ResponseWriter, r *http.Request) {
	adminID := r.URL.Query().Get("admin")
	if adminID == "" {
		respondWithError(w, http.StatusBadRequest, "admin query parameter is required")
		return
	}

	shops, err := h.service.ListForReview(r.Context(), adminID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"shops": shops,
		"count": len(shops),
	})
}
