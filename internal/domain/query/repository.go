package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickme/intel-api/internal/domain/credit"
)

const queryTimeout = 3 * time.Second

const maxStartRetries = 3

const queryColumns = `
	id, officer_id, type, category, input_data, source, result_summary,
	credits_used, status, response_time_ms, created_at, completed_at`

// Repository provides query log persistence. Starting a paid query composes
// the credit deduction into the same database transaction, so a failed
// deduction leaves no query row behind.
type Repository struct {
	db      *sqlx.DB
	credits *credit.Repository
}

func NewRepository(db *sqlx.DB, credits *credit.Repository) *Repository {
	return &Repository{db: db, credits: credits}
}

// OfficerLimits returns the officer settings the start path needs.
func (r *Repository) OfficerLimits(ctx context.Context, officerID uuid.UUID) (rateLimit int, proEnabled bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err = r.db.QueryRowContext(ctx,
		`SELECT rate_limit_per_hour, pro_access_enabled FROM officers WHERE id = $1`, officerID).
		Scan(&rateLimit, &proEnabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, credit.ErrOfficerNotFound
		}
		return 0, false, fmt.Errorf("query repository officer limits: %w", err)
	}

	return rateLimit, proEnabled, nil
}

// Start inserts a Processing query, deducting its cost atomically when the
// lookup is paid. Serialization failures retry like credit allocations do.
func (r *Repository) Start(ctx context.Context, q *Query) error {
	var lastErr error
	for attempt := 0; attempt < maxStartRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			case <-ctx.Done():
				return credit.ErrTimeout
			}
		}

		err := r.startOnce(ctx, q)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", credit.ErrConflict, lastErr)
}

func (r *Repository) startOnce(ctx context.Context, q *Query) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("query repository start: begin tx: %w", err)
	}
	defer tx.Rollback()

	if q.CreditsUsed > 0 {
		_, err = r.credits.AllocateTx(ctx, tx, credit.AllocateParams{
			OfficerID: q.OfficerID,
			Action:    credit.ActionDeduction,
			Credits:   q.CreditsUsed,
			Remarks:   fmt.Sprintf("%s query %s", q.Type, q.ID),
		})
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO requests (
			id, officer_id, type, category, input_data, source,
			credits_used, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, q.ID, q.OfficerID, q.Type, q.Category, q.InputData, q.Source,
		q.CreditsUsed, q.Status, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("query repository start: insert: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE officers SET total_queries = total_queries + 1, last_active = NOW() WHERE id = $1
	`, q.OfficerID)
	if err != nil {
		return fmt.Errorf("query repository start: bump officer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return err
		}
		return fmt.Errorf("query repository start: commit: %w", err)
	}

	return nil
}

// Complete moves a Processing query to its terminal state. The status guard
// in the UPDATE makes the transition happen at most once.
func (r *Repository) Complete(ctx context.Context, id uuid.UUID, status Status, resultSummary string, responseTimeMs int) (*Query, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var summary sql.NullString
	if resultSummary != "" {
		summary = sql.NullString{String: resultSummary, Valid: true}
	}
	var elapsed sql.NullInt32
	if responseTimeMs > 0 {
		elapsed = sql.NullInt32{Int32: int32(responseTimeMs), Valid: true}
	}

	var q Query
	err := r.db.GetContext(ctx, &q, `
		UPDATE requests
		SET status = $2,
		    result_summary = $3,
		    response_time_ms = COALESCE($4, (EXTRACT(EPOCH FROM (NOW() - created_at)) * 1000)::int),
		    completed_at = NOW()
		WHERE id = $1 AND status = 'Processing'
		RETURNING`+queryColumns+`
	`, id, status, summary, elapsed)
	if err == nil {
		return &q, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query repository complete: %w", err)
	}

	// Nothing updated: either the query doesn't exist or it already left
	// Processing.
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`, id); err != nil {
		return nil, fmt.Errorf("query repository complete: %w", err)
	}
	if !exists {
		return nil, ErrQueryNotFound
	}
	return nil, ErrInvalidTransition
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Query, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var q Query
	err := r.db.GetContext(ctx, &q, `SELECT`+queryColumns+` FROM requests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQueryNotFound
		}
		return nil, fmt.Errorf("query repository get: %w", err)
	}

	return &q, nil
}

// List returns queries newest first plus the total count matching the filter.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Query, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where := ` WHERE 1=1`
	args := make([]interface{}, 0, 6)
	idx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND input_data ILIKE $%d", idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Type != nil {
		where += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, *filter.Type)
		idx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.OfficerID != nil {
		where += fmt.Sprintf(" AND officer_id = $%d", idx)
		args = append(args, *filter.OfficerID)
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM requests`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("query repository count: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	sqlQuery := `SELECT` + queryColumns + ` FROM requests` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, (page-1)*limit)

	queries := make([]Query, 0)
	if err := r.db.SelectContext(ctx, &queries, sqlQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("query repository list: %w", err)
	}

	return queries, total, nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
