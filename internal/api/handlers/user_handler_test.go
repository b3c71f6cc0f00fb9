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

type stubUserService struct {
	user *entities.User
	err  error
}

func (s *stubUserService) Register(ctx context.Context, input services.RegisterUserInput) (*entities.User, error) {
	return s.user, s.err
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return s.user, s.err
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("creates a user", func(t *testing.T) {
		service := &stubUserService{user: &entities.User{ID: "u1", Email: "maria@example.com", Role: entities.RoleCustomer}}
		handler := handlers.NewUserHandler(service)

		body := `{"email":"maria@example.com","display_name":"Maria","role":"customer"}`
		req := httptest.NewRequest("POST", "/api/users", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateUser(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response entities.User
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "maria@example.com", response.Email)
	})

	t.Run("unknown role maps to 400", func(t *testing.T) {
		service := &stubUserService{err: apperrors.NewValidationError("unknown role")}
		handler := handlers.NewUserHandler(service)

		body := `{"email":"maria@example.com","display_name":"Maria","role":"superuser"}`
		req := httptest.NewRequest("POST", "/api/users", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateUser(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email maps to 409", func(t *testing.T) {
		service := &stubUserService{err: apperrors.NewConflictError("a user with this email already exists")}
		handler := handlers.NewUserHandler(service)

		body := `{"email":"maria@example.com","display_name":"Maria","role":"customer"}`
		req := httptest.NewRequest("POST", "/api/users", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateUser(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		service := &stubUserService{user: &entities.User{ID: "u1", Email: "maria@example.com", Role: entities.RoleCustomer}}
		handler := handlers.NewUserHandler(service)

		req := httptest.NewRequest("GET", "/api/users/u1", nil)
		req.SetPathValue("id", "u1")
		w := httptest.NewRecorder()

		handler.GetUser(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		service := &stubUserService{err: apperrors.NewNotFoundError("user not found")}
		handler := handlers.NewUserHandler(service)

		req := httptest.NewRequest("GET", "/api/users/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		handler.GetUser(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
