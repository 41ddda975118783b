package query

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pickme/intel-api/internal/domain/credit"
	"github.com/pickme/intel-api/internal/middleware"
	"github.com/pickme/intel-api/internal/pkg/response"
	"github.com/pickme/intel-api/internal/pkg/validator"
)

// Handler exposes the query log. Officers start lookups and read their own
// history; admins see the full log and settle outcomes.
type Handler struct {
	svc     *Service
	feed    *Feed
	adminID func(context.Context) uuid.UUID
}

// NewHandler creates the query handler. adminID extracts the authenticated
// admin from the request context for the live feed.
func NewHandler(svc *Service, feed *Feed, adminID func(context.Context) uuid.UUID) *Handler {
	return &Handler{svc: svc, feed: feed, adminID: adminID}
}

// Start handles POST /queries. The officer comes from the token, never the
// body, so an officer can only spend their own credits.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	officerID := middleware.GetOfficerID(r.Context())
	if officerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req StartRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.UnprocessableEntity(w, details)
		return
	}

	q, err := h.svc.Start(r.Context(), officerID, req)
	if err != nil {
		switch {
		case errors.Is(err, credit.ErrInsufficientCredits):
			response.Error(w, http.StatusPaymentRequired, "Insufficient credits")
		case errors.Is(err, credit.ErrOfficerNotFound):
			response.NotFound(w, "Officer not found")
		case errors.Is(err, ErrProAccessDisabled):
			response.Forbidden(w, "PRO access is not enabled for this account")
		case errors.Is(err, ErrRateLimited):
			response.TooManyRequests(w, "Hourly query limit reached")
		case errors.Is(err, ErrInvalidType):
			response.BadRequest(w, "Invalid query type")
		case errors.Is(err, credit.ErrConflict):
			response.Conflict(w, "Concurrent update, please retry")
		case errors.Is(err, credit.ErrTimeout):
			response.GatewayTimeout(w)
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, q)
}

// Mine handles GET /queries/mine for the authenticated officer.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	officerID := middleware.GetOfficerID(r.Context())
	if officerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	filter.OfficerID = &officerID

	queries, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"queries": queries,
		"meta":    response.NewMeta(total, filter.Page, filter.Limit),
	})
}

// List handles GET /queries (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	if officerID := r.URL.Query().Get("officer_id"); officerID != "" {
		id, err := uuid.Parse(officerID)
		if err != nil {
			response.BadRequest(w, "Invalid officer ID")
			return
		}
		filter.OfficerID = &id
	}

	queries, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"queries": queries,
		"meta":    response.NewMeta(total, filter.Page, filter.Limit),
	})
}

// Get handles GET /queries/{id} (admin).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid query ID")
		return
	}

	q, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrQueryNotFound) {
			response.NotFound(w, "Query not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, q)
}

// Complete handles PATCH /queries/{id} (admin).
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid query ID")
		return
	}

	var req CompleteRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.UnprocessableEntity(w, details)
		return
	}

	q, err := h.svc.Complete(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrQueryNotFound):
			response.NotFound(w, "Query not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Conflict(w, "Query already completed")
		case errors.Is(err, ErrInvalidStatus):
			response.BadRequest(w, "Status must be Success or Failed")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, q)
}

// Live handles GET /live (admin), upgrading to a websocket feed.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	adminID := h.adminID(r.Context())
	if adminID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	h.feed.ServeWS(w, r, adminID)
}

// Routes returns the query log routes. Officer routes and admin routes
// share the subtree but carry different guards.
func (h *Handler) Routes(officerAuth, adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(officerAuth)
		r.Post("/", h.Start)
		r.Get("/mine", h.Mine)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Complete)
	})

	return r
}

func parseFilter(w http.ResponseWriter, r *http.Request) (Filter, bool) {
	filter := Filter{Search: r.URL.Query().Get("search")}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if qt := r.URL.Query().Get("type"); qt != "" {
		t := Type(qt)
		if !t.Valid() {
			response.BadRequest(w, "Invalid type filter")
			return Filter{}, false
		}
		filter.Type = &t
	}
	if qs := r.URL.Query().Get("status"); qs != "" {
		s := Status(qs)
		if s != StatusProcessing && s != StatusSuccess && s != StatusFailed && s != StatusPending {
			response.BadRequest(w, "Invalid status filter")
			return Filter{}, false
		}
		filter.Status = &s
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	return filter, true
}
