package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pickme/intel-api/internal/pkg/response"
	"github.com/pickme/intel-api/internal/pkg/validator"
)

// Handler exposes admin authentication and account management.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Login handles POST /auth/login
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

	result, err := h.svc.Login(r.Context(), req.Email, req.Password, r.RemoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid email or password")
		case errors.Is(err, ErrAdminInactive):
			response.Forbidden(w, "Account is inactive")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Verify handles GET /auth/verify. Reaching it at all means the middleware
// accepted the token and the account is still active.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	adminID := GetAdminID(r.Context())
	if adminID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	a, err := h.svc.GetByID(r.Context(), adminID)
	if err != nil {
		response.Unauthorized(w, "Admin not found")
		return
	}

	response.OK(w, map[string]interface{}{"valid": true, "admin": a})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"admins": admins})
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

	a, err := h.svc.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			response.Conflict(w, "Email already registered")
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, "Invalid role")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, a)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
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

	a, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAdminNotFound):
			response.NotFound(w, "Admin not found")
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, "Invalid role")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, a)
}
