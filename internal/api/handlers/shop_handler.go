package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/loyaltyscan/backend/internal/application/services"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
	"github.com/loyaltyscan/backend/pkg/scantoken"
)

// ShopService defines the shop operations used by the handler
type ShopService interface {
	Register(ctx context.Context, input services.RegisterShopInput) (*entities.Shop, error)
	GetByID(ctx context.Context, shopID string) (*entities.Shop, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error)
	SubmitLicense(ctx context.Context, shopID, ownerID, license string) (*entities.Shop, error)
}

// ShopHandler handles shop-related HTTP requests
type ShopHandler struct {
	service ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(service ShopService) *ShopHandler {
	return &ShopHandler{
		service: service,
	}
}

// shopResponse carries the shop along with the token its scannable code
// encodes, so the owner view can render the code without a second request.
type shopResponse struct {
	*entities.Shop
	ScanToken string `json:"scan_token"`
}

func toShopResponse(shop *entities.Shop) shopResponse {
	return shopResponse{Shop: shop, ScanToken: scantoken.Encode(shop.ID)}
}

type registerShopRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	OwnerID      string `json:"owner_id"`
	ContactEmail string `json:"contact_email"`
	SecretCode   string `json:"secret_code"`
}

// RegisterShop handles POST /api/shops
func (h *ShopHandler) RegisterShop(w http.ResponseWriter, r *http.Request) {
	var payload registerShopRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	shop, err := h.service.Register(r.Context(), services.RegisterShopInput{
		Name:         payload.Name,
		Category:     entities.ShopCategory(payload.Category),
		OwnerID:      payload.OwnerID,
		ContactEmail: payload.ContactEmail,
		SecretCode:   payload.SecretCode,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toShopResponse(shop))
}

// GetShop handles GET /api/shops/:id
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	shop, err := h.service.GetByID(r.Context(), shopID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toShopResponse(shop))
}

// ListShops handles GET /api/shops?owner=
func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner")
	if ownerID == "" {
		respondWithError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	shops, err := h.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"shops": shops,
		"count": len(shops),
	})
}

type submitLicenseRequest struct {
	OwnerID       string `json:"owner_id"`
	LicenseNumber string `json:"license_number"`
}

// SubmitLicense handles POST /api/shops/:id/license
func (h *ShopHandler) SubmitLicense(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	var payload submitLicenseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	shop, err := h.service.SubmitLicense(r.Context(), shopID, payload.OwnerID, payload.LicenseNumber)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toShopResponse(shop))
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an AppError type to the corresponding HTTP status
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
