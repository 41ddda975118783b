package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/pickme/intel-api/internal/domain/credit"
	"github.com/pickme/intel-api/internal/pkg/response"
	"github.com/pickme/intel-api/internal/pkg/validator"
)

// CreditHandler handles admin-facing credit grants and the full ledger view.
type CreditHandler struct {
	creditService credit.Service
}

func NewCreditHandler(creditService credit.Service) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// GrantCredits handles POST /credits/add. The acting admin is recorded as
// processed_by on the transaction row.
func (h *CreditHandler) GrantCredits(w http.ResponseWriter, r *http.Request) {
	var req GrantCreditsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.UnprocessableEntity(w, details)
		return
	}

	officerID, err := uuid.Parse(req.OfficerID)
	if err != nil {
		response.BadRequest(w, "Invalid officer ID")
		return
	}

	adminID := GetAdminID(r.Context())

	txn, err := h.creditService.Allocate(r.Context(), credit.AllocateParams{
		OfficerID:        officerID,
		Action:           credit.Action(req.Action),
		Credits:          req.Credits,
		PaymentMode:      req.PaymentMode,
		PaymentReference: req.PaymentReference,
		Remarks:          req.Remarks,
		ProcessedBy:      &adminID,
	})
	if err != nil {
		switch {
		case errors.Is(err, credit.ErrOfficerNotFound):
			response.NotFound(w, "Officer not found")
		case errors.Is(err, credit.ErrInvalidAction):
			response.BadRequest(w, "Invalid action or credit amount")
		case errors.Is(err, credit.ErrInsufficientCredits):
			response.Conflict(w, "Insufficient credits")
		case errors.Is(err, credit.ErrConflict):
			response.Conflict(w, "Concurrent update, please retry")
		case errors.Is(err, credit.ErrTimeout):
			response.GatewayTimeout(w)
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, txn)
}

// ListTransactions handles GET /credits/transactions
func (h *CreditHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := credit.Filter{}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if officerID := r.URL.Query().Get("officer_id"); officerID != "" {
		id, err := uuid.Parse(officerID)
		if err != nil {
			response.BadRequest(w, "Invalid officer ID")
			return
		}
		filter.OfficerID = &id
	}
	if action := r.URL.Query().Get("action"); action != "" {
		a := credit.Action(action)
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

	transactions, total, err := h.creditService.ListTransactions(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"transactions": transactions,
		"meta":         response.NewMeta(total, filter.Page, filter.Limit),
	})
}
