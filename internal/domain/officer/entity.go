package officer

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status defines officer account states.
type Status string

const (
	StatusActive    Status = "Active"
	StatusSuspended Status = "Suspended"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// Officer represents a field officer account
type Officer struct {
	ID               uuid.UUID      `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Email            sql.NullString `db:"email" json:"email,omitempty"`
	Mobile           string         `db:"mobile" json:"mobile"`
	TelegramID       sql.NullString `db:"telegram_id" json:"telegram_id,omitempty"`
	Department       sql.NullString `db:"department" json:"department,omitempty"`
	Rank             sql.NullString `db:"rank" json:"rank,omitempty"`
	BadgeNumber      sql.NullString `db:"badge_number" json:"badge_number,omitempty"`
	Station          sql.NullString `db:"station" json:"station,omitempty"`
	PasswordHash     string         `db:"password_hash" json:"-"`
	Status           Status         `db:"status" json:"status"`
	CreditsRemaining int            `db:"credits_remaining" json:"credits_remaining"`
	TotalCredits     int            `db:"total_credits" json:"total_credits"`
	TotalQueries     int            `db:"total_queries" json:"total_queries"`
	RateLimitPerHour int            `db:"rate_limit_per_hour" json:"rate_limit_per_hour"`
	ProAccessEnabled bool           `db:"pro_access_enabled" json:"pro_access_enabled"`
	LastActive       sql.NullTime   `db:"last_active" json:"last_active,omitempty"`
	RegisteredOn     time.Time      `db:"registered_on" json:"registered_on"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// NormalizeMobile strips spaces, dashes and parentheses so the same number
// always hits the same unique index entry. A leading + is kept.
func NormalizeMobile(mobile string) string {
	var b strings.Builder
	for i, r := range mobile {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Filter narrows officer listings.
type Filter struct {
	Search string
	Status *Status
	Page   int
	Limit  int
}
