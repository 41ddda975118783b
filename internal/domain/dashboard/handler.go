package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pickme/intel-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates new dashboard handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetStats returns the admin dashboard counters
// GET /api/dashboard/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

// GetActivity returns recent transactions and queries merged newest first
// GET /api/dashboard/activity
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activity, err := h.svc.GetActivity(r.Context(), limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"activity": activity})
}

// Routes returns dashboard routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/stats", h.GetStats)
	r.Get("/activity", h.GetActivity)

	return r
}
