package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/loyaltyscan/backend/internal/domain/entities"
)

// SessionService defines the active-session operations used by the handler
type SessionService interface {
	Activate(ctx context.Context, userID string) (*entities.User, error)
	Active(ctx context.Context) (*entities.User, error)
	Clear(ctx context.Context) error
}

// SessionHandler handles the single active session
type SessionHandler struct {
	service SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service SessionService) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

type activateSessionRequest struct {
	UserID string `json:"user_id"`
}

// ActivateSession handles POST /api/session
func (h *SessionHandler) ActivateSession(w http.ResponseWriter, r *http.Request) {
	var payload activateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	user, err := h.service.Activate(r.Context(), payload.UserID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// GetActiveSession handles GET /api/session
func (h *SessionHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Active(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if user == nil {
		respondWithError(w, http.StatusNotFound, "no active session")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// ClearSession handles DELETE /api/session
func (h *SessionHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
