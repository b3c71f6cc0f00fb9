package handlers

import (
	"context"
	"net/http"

	"github.com/loyaltyscan/backend/internal/application/services"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	"github.com/loyaltyscan/backend/internal/infrastructure/observability"
)

// EligibilityService defines the weekly progress operations used by the handler
type EligibilityService interface {
	CurrentWeek(ctx context.Context, customerID, shopID string) (*services.WeekCalendar, error)
}

// CustomerHandler serves a customer's visit history and weekly progress
type CustomerHandler struct {
	visitRepo   repositories.VisitRepository
	eligibility EligibilityService
	metrics     *observability.Metrics
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(visitRepo repositories.VisitRepository, eligibility EligibilityService, metrics *observability.Metrics) *CustomerHandler {
	return &CustomerHandler{
		visitRepo:   visitRepo,
		eligibility: eligibility,
		metrics:     metrics,
	}
}

// GetVisitHistory handles GET /api/customers/:id/visits
func (h *CustomerHandler) GetVisitHistory(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	if customerID == "" {
		respondWithError(w, http.StatusBadRequest, "customer ID is required")
		return
	}

	visits, err := h.visitRepo.ListByCustomer(r.Context(), customerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if visits == nil {
		visits = []*entities.Visit{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"visits": visits,
		"count":  len(visits),
	})
}

// GetWeek handles GET /api/customers/:id/shops/:shopId/week
func (h *CustomerHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	customerID := r.PathValue("id")
	shopID := r.PathValue("shopId")
	if customerID == "" || shopID == "" {
		respondWithError(w, http.StatusBadRequest, "customer ID and shop ID are required")
		return
	}

	week, err := h.eligibility.CurrentWeek(r.Context(), customerID, shopID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if week.Eligible {
		observability.RecordReward(r.Context(), h.metrics, shopID)
	}

	respondWithJSON(w, http.StatusOK, week)
}
