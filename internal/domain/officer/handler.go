package officer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pickme/intel-api/internal/pkg/response"
	"github.com/pickme/intel-api/internal/pkg/validator"
)

// Handler exposes officer management (admin-facing) and officer login.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := Filter{Search: r.URL.Query().Get("search")}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if status := r.URL.Query().Get("status"); status != "" {
		s := Status(status)
		if !s.Valid() {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		filter.Status = &s
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	officers, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"officers": officers,
		"meta":     response.NewMeta(total, filter.Page, filter.Limit),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid officer ID")
		return
	}

	o, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOfficerNotFound) {
			response.NotFound(w, "Officer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, o)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.UnprocessableEntity(w, details)
		return
	}

	o, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrMobileTaken) {
			response.Conflict(w, "Mobile number already registered")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, o)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid officer ID")
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.UnprocessableEntity(w, details)
		return
	}

	o, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrOfficerNotFound) {
			response.NotFound(w, "Officer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, o)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid officer ID")
		return
	}

	var req StatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.UnprocessableEntity(w, details)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, Status(req.Status)); err != nil {
		switch {
		case errors.Is(err, ErrOfficerNotFound):
			response.NotFound(w, "Officer not found")
		case errors.Is(err, ErrInvalidStatus):
			response.BadRequest(w, "Invalid status")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": req.Status})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid officer ID")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrOfficerNotFound):
			response.NotFound(w, "Officer not found")
		case errors.Is(err, ErrOfficerReferenced):
			response.Conflict(w, "Officer has transaction or query history; suspend instead")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// Login authenticates an officer by email or mobile.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.UnprocessableEntity(w, details)
		return
	}

	result, err := h.svc.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid credentials")
		case errors.Is(err, ErrOfficerSuspended):
			response.Forbidden(w, "Account suspended")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Routes returns the admin-guarded officer management routes.
func (h *Handler) Routes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	return r
}
