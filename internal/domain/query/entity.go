package query

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type defines supported lookup kinds.
type Type string

const (
	TypeOSINT Type = "OSINT"
	TypePRO   Type = "PRO"
)

func (t Type) Valid() bool {
	return t == TypeOSINT || t == TypePRO
}

// Status defines the query lifecycle. Processing is the only state a query
// is created in; Success and Failed are terminal.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusSuccess    Status = "Success"
	StatusFailed     Status = "Failed"
	StatusPending    Status = "Pending"
)

func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Query represents one lookup in the request log.
type Query struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	OfficerID      uuid.UUID      `db:"officer_id" json:"officer_id"`
	Type           Type           `db:"type" json:"type"`
	Category       sql.NullString `db:"category" json:"category,omitempty"`
	InputData      string         `db:"input_data" json:"input_data"`
	Source         sql.NullString `db:"source" json:"source,omitempty"`
	ResultSummary  sql.NullString `db:"result_summary" json:"result_summary,omitempty"`
	CreditsUsed    int            `db:"credits_used" json:"credits_used"`
	Status         Status         `db:"status" json:"status"`
	ResponseTimeMs sql.NullInt32  `db:"response_time_ms" json:"response_time_ms,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	CompletedAt    sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// Filter narrows query log listings.
type Filter struct {
	Search    string
	Type      *Type
	Status    *Status
	OfficerID *uuid.UUID
	Page      int
	Limit     int
}
