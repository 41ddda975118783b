package credit

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Action defines supported ledger actions.
type Action string

const (
	ActionRenewal    Action = "Renewal"
	ActionDeduction  Action = "Deduction"
	ActionTopUp      Action = "Top-up"
	ActionRefund     Action = "Refund"
	ActionAdjustment Action = "Adjustment"
)

// Valid reports whether the action is a known ledger action.
func (a Action) Valid() bool {
	switch a {
	case ActionRenewal, ActionDeduction, ActionTopUp, ActionRefund, ActionAdjustment:
		return true
	}
	return false
}

// Delta converts (action, credits) into the signed balance delta.
// Renewal/Top-up/Refund add a positive amount, Deduction subtracts a
// positive amount, Adjustment carries its own sign. A zero or wrongly
// signed amount is ErrInvalidAction.
func Delta(action Action, credits int) (int, error) {
	switch action {
	case ActionRenewal, ActionTopUp, ActionRefund:
		if credits <= 0 {
			return 0, ErrInvalidAction
		}
		return credits, nil
	case ActionDeduction:
		if credits <= 0 {
			return 0, ErrInvalidAction
		}
		return -credits, nil
	case ActionAdjustment:
		if credits == 0 {
			return 0, ErrInvalidAction
		}
		return credits, nil
	default:
		return 0, ErrInvalidAction
	}
}

// Transaction is an immutable ledger row. Every balance mutation writes
// exactly one of these in the same database transaction, so the chain of
// previous_balance/new_balance replays to the officer's current balance.
type Transaction struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	OfficerID        uuid.UUID      `db:"officer_id" json:"officer_id"`
	Action           Action         `db:"action" json:"action"`
	Credits          int            `db:"credits" json:"credits"`
	PreviousBalance  int            `db:"previous_balance" json:"previous_balance"`
	NewBalance       int            `db:"new_balance" json:"new_balance"`
	PaymentMode      sql.NullString `db:"payment_mode" json:"payment_mode,omitempty"`
	PaymentReference sql.NullString `db:"payment_reference" json:"payment_reference,omitempty"`
	Remarks          sql.NullString `db:"remarks" json:"remarks,omitempty"`
	ProcessedBy      uuid.NullUUID  `db:"processed_by" json:"processed_by,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// AllocateParams describes one balance mutation.
type AllocateParams struct {
	OfficerID        uuid.UUID
	Action           Action
	Credits          int
	PaymentMode      string
	PaymentReference string
	Remarks          string
	ProcessedBy      *uuid.UUID
}

// Filter narrows transaction listings.
type Filter struct {
	OfficerID *uuid.UUID
	Action    *Action
	Page      int
	Limit     int
}
