package admin

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents an admin role
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleModerator
}

// AdminUser represents an admin panel account
type AdminUser struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         sql.NullString `db:"name" json:"name,omitempty"`
	Role         Role           `db:"role" json:"role"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	LastLoginAt  sql.NullTime   `db:"last_login_at" json:"last_login_at,omitempty"`
	LastLoginIP  sql.NullString `db:"last_login_ip" json:"last_login_ip,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
