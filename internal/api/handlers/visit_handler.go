package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/loyaltyscan/backend/internal/application/services"
	"github.com/loyaltyscan/backend/internal/domain/calendar"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/infrastructure/observability"
)

// visitDateLayout is the wire format for the optional visit date.
const visitDateLayout = "2006-01-02"

// VisitService defines the check-in operations used by the handler
type VisitService interface {
	RecordVisit(ctx context.Context, input services.RecordVisitInput) (*entities.Visit, error)
	DirectCheckIn(ctx context.Context, input services.DirectCheckInInput) (*entities.Visit, error)
}

// VisitHandler handles check-in HTTP requests
type VisitHandler struct {
	service VisitService
	cal     *calendar.Calendar
	metrics *observability.Metrics
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(service VisitService, cal *calendar.Calendar, metrics *observability.Metrics) *VisitHandler {
	return &VisitHandler{
		service: service,
		cal:     cal,
		metrics: metrics,
	}
}

type recordVisitRequest struct {
	CustomerID     string `json:"customer_id"`
	ShopID         string `json:"shop_id"`
	SecretCode     string `json:"secret_code"`
	TransactionRef string `json:"transaction_ref"`
	VisitDate      string `json:"visit_date"`
}

// RecordVisit handles POST /api/visits
func (h *VisitHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var payload recordVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	visitDate, ok := h.parseVisitDate(w, payload.VisitDate)
	if !ok {
		return
	}

	visit, err := h.service.RecordVisit(r.Context(), services.RecordVisitInput{
		CustomerID:     payload.CustomerID,
		ShopID:         payload.ShopID,
		SecretCode:     payload.SecretCode,
		TransactionRef: payload.TransactionRef,
		VisitDate:      visitDate,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	observability.RecordVisit(r.Context(), h.metrics, visit.ShopID)
	respondWithJSON(w, http.StatusCreated, visit)
}

type checkInRequest struct {
	CustomerID     string `json:"customer_id"`
	Code           string `json:"code"`
	SecretCode     string `json:"secret_code"`
	TransactionRef string `json:"transaction_ref"`
	VisitDate      string `json:"visit_date"`
}

// CheckIn handles POST /api/checkins. The code field carries either a
// scanned token or a manually typed shop ID.
func (h *VisitHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var payload checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	visitDate, ok := h.parseVisitDate(w, payload.VisitDate)
	if !ok {
		return
	}

	visit, err := h.service.DirectCheckIn(r.Context(), services.DirectCheckInInput{
		CustomerID:     payload.CustomerID,
		Code:           payload.Code,
		SecretCode:     payload.SecretCode,
		TransactionRef: payload.TransactionRef,
		VisitDate:      visitDate,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	observability.RecordVisit(r.Context(), h.metrics, visit.ShopID)
	respondWithJSON(w, http.StatusCreated, visit)
}

// parseVisitDate parses the optional visit_date field in the calendar's
// zone, so the chosen calendar day survives the round trip through an
// instant. An empty string means today. A false return means an error
// response was already written.
func (h *VisitHandler) parseVisitDate(w http.ResponseWriter, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	date, err := time.ParseInLocation(visitDateLayout, value, h.cal.Location())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid visit_date format (use YYYY-MM-DD)")
		return time.Time{}, false
	}
	return date, true
}
