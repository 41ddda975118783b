package credit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pickme/intel-api/internal/middleware"
	"github.com/pickme/intel-api/internal/pkg/response"
)

// Handler exposes officer-facing balance and history endpoints. The officer
// is taken from the authenticated context; an officer can only read their
// own ledger.
type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	officerID := middleware.GetOfficerID(r.Context())
	if officerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), officerID)
	if err != nil {
		if errors.Is(err, ErrOfficerNotFound) {
			response.NotFound(w, "Officer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	officerID := middleware.GetOfficerID(r.Context())
	if officerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := Filter{OfficerID: &officerID}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if action := r.URL.Query().Get("action"); action != "" {
		a := Action(action)
		if !a.Valid() {
			response.BadRequest(w, "Invalid action filter")
			return
		}
		filter.Action = &a
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	transactions, total, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"meta":         response.NewMeta(total, filter.Page, filter.Limit),
	})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/balance", h.Balance)
	r.Get("/history", h.History)
	return r
}
