package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

const adminColumns = `
	id, email, password_hash, name, role, is_active,
	last_login_at, last_login_ip, created_at, updated_at`

// Repository defines admin data access
type Repository interface {
	Create(ctx context.Context, a *AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	List(ctx context.Context) ([]AdminUser, error)
	Update(ctx context.Context, a *AdminUser) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *AdminUser) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO admin_users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.Name, a.Role, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("admin repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a AdminUser
	err := r.db.GetContext(ctx, &a, `SELECT`+adminColumns+` FROM admin_users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("admin repository get: %w", err)
	}

	return &a, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a AdminUser
	err := r.db.GetContext(ctx, &a, `SELECT`+adminColumns+` FROM admin_users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("admin repository get by email: %w", err)
	}

	return &a, nil
}

func (r *repository) List(ctx context.Context) ([]AdminUser, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	admins := make([]AdminUser, 0)
	err := r.db.SelectContext(ctx, &admins, `SELECT`+adminColumns+` FROM admin_users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("admin repository list: %w", err)
	}

	return admins, nil
}

func (r *repository) Update(ctx context.Context, a *AdminUser) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE admin_users
		SET name = $2, password_hash = $3, role = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.PasswordHash, a.Role, a.IsActive)
	if err != nil {
		return fmt.Errorf("admin repository update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAdminNotFound
	}

	return nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error {
	query := `UPDATE admin_users SET last_login_at = $2, last_login_ip = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, time.Now().UTC(), ip)
	return err
}
