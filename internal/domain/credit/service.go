package credit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Service is the single authority for changing an officer's balance. Every
// mutation goes through Allocate (or AllocateTx when composed with another
// write) so the replay invariant holds.
type Service interface {
	Allocate(ctx context.Context, p AllocateParams) (*Transaction, error)
	AllocateTx(ctx context.Context, tx *sqlx.Tx, p AllocateParams) (*Transaction, error)
	GetBalance(ctx context.Context, officerID uuid.UUID) (int, error)
	ListTransactions(ctx context.Context, filter Filter) ([]Transaction, int, error)
}

type service struct {
	repo *Repository
}

// NewService creates the credit service
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func (s *service) Allocate(ctx context.Context, p AllocateParams) (*Transaction, error) {
	if _, err := Delta(p.Action, p.Credits); err != nil {
		return nil, err
	}

	txn, err := s.repo.Allocate(ctx, p)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	log.Info().
		Str("officer_id", p.OfficerID.String()).
		Str("action", string(p.Action)).
		Int("credits", p.Credits).
		Int("previous_balance", txn.PreviousBalance).
		Int("new_balance", txn.NewBalance).
		Msg("credit allocation applied")

	return txn, nil
}

func (s *service) AllocateTx(ctx context.Context, tx *sqlx.Tx, p AllocateParams) (*Transaction, error) {
	if _, err := Delta(p.Action, p.Credits); err != nil {
		return nil, err
	}
	return s.repo.AllocateTx(ctx, tx, p)
}

func (s *service) GetBalance(ctx context.Context, officerID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, officerID)
}

func (s *service) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, int, error) {
	return s.repo.ListTransactions(ctx, filter)
}
