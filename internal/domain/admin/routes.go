package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AuthRoutes returns the admin auth router: login is public, verify runs
// behind the auth middleware.
func (h *Handler) AuthRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/verify", h.Verify)
	})
	return r
}

// AdminRoutes returns admin account management routes.
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(RequirePermission(PermManageAdmins))
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	return r
}

// Routes returns the admin-facing credit routes.
func (h *CreditHandler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.With(RequirePermission(PermGrantCredits)).Post("/add", h.GrantCredits)
	r.With(RequirePermission(PermViewLedger)).Get("/transactions", h.ListTransactions)
	return r
}
