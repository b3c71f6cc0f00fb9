package routes

import (
	"net/http"

	"github.com/loyaltyscan/backend/internal/api/handlers"
	"github.com/loyaltyscan/backend/internal/api/middleware"
	"github.com/loyaltyscan/backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	userHandler    *handlers.UserHandler
	sessionHandler *handlers.SessionHandler

	shopHandler  *handlers.ShopHandler
	adminHandler *handlers.AdminHandler

	visitHandler    *handlers.VisitHandler
	customerHandler *handlers.CustomerHandler

	dashboardHandler *handlers.DashboardHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	userHandler *handlers.UserHandler,
	sessionHandler *handlers.SessionHandler,

	shopHandler *handlers.ShopHandler,
	adminHandler *handlers.AdminHandler,

	visitHandler *handlers.VisitHandler,
	customerHandler *handlers.CustomerHandler,

	dashboardHandler *handlers.DashboardHandler,

	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		userHandler:    userHandler,
		sessionHandler: sessionHandler,

		shopHandler:  shopHandler,
		adminHandler: adminHandler,

		visitHandler:    visitHandler,
		customerHandler: customerHandler,

		dashboardHandler: dashboardHandler,

		metrics: metrics,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// User endpoints

	r.mux.HandleFunc("POST /api/users", r.userHandler.CreateUser)

	r.mux.HandleFunc("GET /api/users/{id}", r.userHandler.GetUser)

	// Session endpoints

	r.mux.HandleFunc("POST /api/session", r.sessionHandler.ActivateSession)

	r.mux.HandleFunc("GET /api/session", r.sessionHandler.GetActiveSession)

	r.mux.HandleFunc("DELETE /api/session", r.sessionHandler.ClearSession)

	// Shop endpoints

	r.mux.HandleFunc("POST /api/shops", r.shopHandler.RegisterShop)

	r.mux.HandleFunc("GET /api/shops", r.shopHandler.ListShops)

	r.mux.HandleFunc("GET /api/shops/{id}", r.shopHandler.GetShop)

	r.mux.HandleFunc("POST /api/shops/{id}/license", r.shopHandler.SubmitLicense)

	r.mux.HandleFunc("GET /api/shops/{id}/dashboard", r.dashboardHandler.GetShopDashboard)

	// Admin review endpoints

	r.mux.HandleFunc("GET /api/admin/shops", r.adminHandler.ListReviewShops)

	r.mux.HandleFunc("POST /api/admin/shops/{id}/approve", r.adminHandler.ApproveShop)

	r.mux.HandleFunc("POST /api/admin/shops/{id}/reject", r.adminHandler.RejectShop)

	r.mux.HandleFunc("POST /api/admin/shops/{id}/revoke", r.adminHandler.RevokeShop)

	// Check-in endpoints

	r.mux.HandleFunc("POST /api/visits", r.visitHandler.RecordVisit)

	r.mux.HandleFunc("POST /api/checkins", r.visitHandler.CheckIn)

	// Customer endpoints

	r.mux.HandleFunc("GET /api/customers/{id}/visits", r.customerHandler.GetVisitHistory)

	r.mux.HandleFunc("GET /api/customers/{id}/shops/{shopId}/week", r.customerHandler.GetWeek)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = middleware.CORSMiddleware(handler)

	return handler
}
