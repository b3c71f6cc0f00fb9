package handlers

import (
	"context"
	"net/http"

	"github.com/loyaltyscan/backend/internal/application/services"
)

// DashboardService defines the owner aggregate operations used by the handler
type DashboardService interface {
	ForShop(ctx context.Context, shopID, ownerID string) (*services.ShopDashboard, error)
}

// DashboardHandler serves owner-facing shop aggregates
type DashboardHandler struct {
	service DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

// GetShopDashboard handles GET /api/shops/:id/dashboard?owner=
func (h *DashboardHandler) GetShopDashboard(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	ownerID := r.URL.Query().Get("owner")
	if ownerID == "" {
		respondWithError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	dashboard, err := h.service.ForShop(r.Context(), shopID, ownerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}
