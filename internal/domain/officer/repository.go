package officer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

const officerColumns = `
	id, name, email, mobile, telegram_id, department, rank, badge_number, station,
	password_hash, status, credits_remaining, total_credits, total_queries,
	rate_limit_per_hour, pro_access_enabled, last_active, registered_on,
	created_at, updated_at`

// Repository defines officer data access
type Repository interface {
	Create(ctx context.Context, o *Officer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Officer, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Officer, error)
	List(ctx context.Context, filter Filter) ([]Officer, int, error)
	Update(ctx context.Context, o *Officer) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasReferences(ctx context.Context, id uuid.UUID) (bool, error)
	TouchLastActive(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Officer) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO officers (
			id, name, email, mobile, telegram_id, department, rank, badge_number, station,
			password_hash, status, credits_remaining, total_credits, total_queries,
			rate_limit_per_hour, pro_access_enabled, registered_on, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Email, o.Mobile, o.TelegramID, o.Department, o.Rank,
		o.BadgeNumber, o.Station, o.PasswordHash, o.Status, o.CreditsRemaining,
		o.TotalCredits, o.TotalQueries, o.RateLimitPerHour, o.ProAccessEnabled,
		o.RegisteredOn, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrMobileTaken
		}
		return fmt.Errorf("officer repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Officer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o Officer
	err := r.db.GetContext(ctx, &o, `SELECT`+officerColumns+` FROM officers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficerNotFound
		}
		return nil, fmt.Errorf("officer repository get: %w", err)
	}

	return &o, nil
}

// GetByIdentifier resolves an officer by email or normalized mobile.
func (r *repository) GetByIdentifier(ctx context.Context, identifier string) (*Officer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o Officer
	query := `SELECT` + officerColumns + ` FROM officers WHERE email = $1 OR mobile = $2`
	err := r.db.GetContext(ctx, &o, query, strings.ToLower(identifier), NormalizeMobile(identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficerNotFound
		}
		return nil, fmt.Errorf("officer repository get by identifier: %w", err)
	}

	return &o, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Officer, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where := ` WHERE 1=1`
	args := make([]interface{}, 0, 4)
	idx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR mobile ILIKE $%d OR badge_number ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM officers`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("officer repository count: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT` + officerColumns + ` FROM officers` + where +
		fmt.Sprintf(" ORDER BY registered_on DESC, id DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, (page-1)*limit)

	officers := make([]Officer, 0)
	if err := r.db.SelectContext(ctx, &officers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("officer repository list: %w", err)
	}

	return officers, total, nil
}

func (r *repository) Update(ctx context.Context, o *Officer) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE officers
		SET name = $2, email = $3, telegram_id = $4, department = $5, rank = $6,
		    badge_number = $7, station = $8, password_hash = $9,
		    rate_limit_per_hour = $10, pro_access_enabled = $11, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Email, o.TelegramID, o.Department, o.Rank,
		o.BadgeNumber, o.Station, o.PasswordHash, o.RateLimitPerHour, o.ProAccessEnabled,
	)
	if err != nil {
		return fmt.Errorf("officer repository update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfficerNotFound
	}

	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE officers SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("officer repository update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfficerNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM officers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("officer repository delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfficerNotFound
	}

	return nil
}

// HasReferences reports whether ledger or query rows point at the officer.
func (r *repository) HasReferences(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	query := `
		SELECT EXISTS (SELECT 1 FROM credit_transactions WHERE officer_id = $1)
		    OR EXISTS (SELECT 1 FROM requests WHERE officer_id = $1)
	`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("officer repository has references: %w", err)
	}

	return exists, nil
}

func (r *repository) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE officers SET last_active = NOW() WHERE id = $1`, id)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
