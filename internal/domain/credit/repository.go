package credit

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

// maxAllocateRetries bounds retries of serialization/deadlock failures
// before surfacing ErrConflict.
const maxAllocateRetries = 3

// Repository provides ledger and balance operations.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Allocate applies one balance mutation as a single atomic unit: lock the
// officer row, check the balance, write the new balance and append the
// ledger row, commit. Concurrent allocations for the same officer serialize
// on the row lock; transient serialization failures are retried.
func (r *Repository) Allocate(ctx context.Context, p AllocateParams) (*Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxAllocateRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			case <-ctx.Done():
				return nil, ErrTimeout
			}
		}

		txn, err := r.allocateOnce(ctx, p)
		if err == nil {
			return txn, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrConflict, lastErr)
}

func (r *Repository) allocateOnce(ctx context.Context, p AllocateParams) (*Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin allocate tx: %w", err)
	}
	defer tx.Rollback()

	txn, err := r.AllocateTx(ctx2, tx, p)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit allocate tx: %w", err)
	}

	return txn, nil
}

// AllocateTx applies a balance mutation inside a caller-owned transaction.
// The caller commits or rolls back; used when the mutation must be atomic
// with another write (e.g. recording a query).
func (r *Repository) AllocateTx(ctx context.Context, tx *sqlx.Tx, p AllocateParams) (*Transaction, error) {
	delta, err := Delta(p.Action, p.Credits)
	if err != nil {
		return nil, err
	}

	// Row lock serializes concurrent allocations for the same officer
	var balance, total int
	err = tx.QueryRowContext(ctx, `
		SELECT credits_remaining, total_credits
		FROM officers
		WHERE id = $1
		FOR UPDATE
	`, p.OfficerID).Scan(&balance, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficerNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("lock officer row: %w", err)
	}

	newBalance := balance + delta
	if newBalance < 0 {
		return nil, ErrInsufficientCredits
	}

	// Lifetime total grows on allocations; refunds and upward adjustments
	// only raise it as far as needed to keep credits_remaining <= total_credits.
	newTotal := total
	switch p.Action {
	case ActionRenewal, ActionTopUp:
		newTotal += p.Credits
	default:
		if newBalance > newTotal {
			newTotal = newBalance
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE officers
		SET credits_remaining = $2, total_credits = $3, updated_at = now()
		WHERE id = $1
	`, p.OfficerID, newBalance, newTotal)
	if err != nil {
		return nil, fmt.Errorf("update officer balance: %w", err)
	}

	txn := &Transaction{
		ID:              uuid.New(),
		OfficerID:       p.OfficerID,
		Action:          p.Action,
		Credits:         p.Credits,
		PreviousBalance: balance,
		NewBalance:      newBalance,
		CreatedAt:       time.Now().UTC(),
	}
	if p.PaymentMode != "" {
		txn.PaymentMode = sql.NullString{String: p.PaymentMode, Valid: true}
	}
	if p.PaymentReference != "" {
		txn.PaymentReference = sql.NullString{String: p.PaymentReference, Valid: true}
	}
	if p.Remarks != "" {
		txn.Remarks = sql.NullString{String: p.Remarks, Valid: true}
	}
	if p.ProcessedBy != nil {
		txn.ProcessedBy = uuid.NullUUID{UUID: *p.ProcessedBy, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (
			id, officer_id, action, credits, previous_balance, new_balance,
			payment_mode, payment_reference, remarks, processed_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, txn.ID, txn.OfficerID, txn.Action, txn.Credits, txn.PreviousBalance, txn.NewBalance,
		txn.PaymentMode, txn.PaymentReference, txn.Remarks, txn.ProcessedBy, txn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	return txn, nil
}

// GetBalance returns the officer's current balance.
func (r *Repository) GetBalance(ctx context.Context, officerID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int
	err := r.db.GetContext(ctx2, &balance, `SELECT credits_remaining FROM officers WHERE id = $1`, officerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrOfficerNotFound
		}
		return 0, fmt.Errorf("%w: get balance", ErrInternal)
	}

	return balance, nil
}

// ListTransactions returns transactions newest first plus the total count
// matching the filter.
func (r *Repository) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where := ` WHERE 1=1`
	args := make([]interface{}, 0, 4)
	idx := 1

	if filter.OfficerID != nil {
		where += fmt.Sprintf(" AND officer_id = $%d", idx)
		args = append(args, *filter.OfficerID)
		idx++
	}
	if filter.Action != nil {
		where += fmt.Sprintf(" AND action = $%d", idx)
		args = append(args, *filter.Action)
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx2, &total, `SELECT COUNT(*) FROM credit_transactions`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: count transactions", ErrInternal)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT id, officer_id, action, credits, previous_balance, new_balance,
		       payment_mode, payment_reference, remarks, processed_by, created_at
		FROM credit_transactions` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	transactions := make([]Transaction, 0)
	if err := r.db.SelectContext(ctx2, &transactions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: list transactions", ErrInternal)
	}

	return transactions, total, nil
}

// HasRows reports whether any ledger rows reference the officer. Officers
// with ledger history cannot be hard-deleted.
func (r *Repository) HasRows(ctx context.Context, officerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM credit_transactions WHERE officer_id = $1)`, officerID)
	if err != nil {
		return false, fmt.Errorf("%w: check transactions", ErrInternal)
	}
	return exists, nil
}

func isRetryable(err error) bool {
	return isSerializationFailure(err)
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// serialization_failure, deadlock_detected
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
