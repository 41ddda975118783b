package query

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pickme/intel-api/internal/pkg/ratelimit"
)

// Lookup costs in credits. OSINT lookups hit free sources; PRO lookups go
// through paid data providers.
const (
	CostOSINT = 0
	CostPRO   = 2
)

func costFor(t Type) int {
	if t == TypePRO {
		return CostPRO
	}
	return CostOSINT
}

// Service orchestrates the query lifecycle.
type Service struct {
	repo    *Repository
	limiter *ratelimit.Limiter
	feed    *Feed
}

func NewService(repo *Repository, limiter *ratelimit.Limiter, feed *Feed) *Service {
	return &Service{repo: repo, limiter: limiter, feed: feed}
}

// Start begins a lookup for the officer. The credit deduction for paid
// lookups happens in the same database transaction as the query insert, so
// an overdraw leaves no trace in the log.
func (s *Service) Start(ctx context.Context, officerID uuid.UUID, req StartRequest) (*Query, error) {
	t := Type(req.Type)
	if !t.Valid() {
		return nil, ErrInvalidType
	}

	rateLimit, proEnabled, err := s.repo.OfficerLimits(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if t == TypePRO && !proEnabled {
		return nil, ErrProAccessDisabled
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, officerID, rateLimit)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrRateLimited
		}
	}

	q := &Query{
		ID:          uuid.New(),
		OfficerID:   officerID,
		Type:        t,
		InputData:   req.InputData,
		CreditsUsed: costFor(t),
		Status:      StatusProcessing,
		CreatedAt:   time.Now().UTC(),
	}
	if req.Category != "" {
		q.Category = sql.NullString{String: req.Category, Valid: true}
	}
	if req.Source != "" {
		q.Source = sql.NullString{String: req.Source, Valid: true}
	}

	if err := s.repo.Start(ctx, q); err != nil {
		return nil, err
	}

	log.Info().
		Str("query_id", q.ID.String()).
		Str("officer_id", officerID.String()).
		Str("type", string(t)).
		Int("credits_used", q.CreditsUsed).
		Msg("query started")

	if s.feed != nil {
		s.feed.Broadcast(EventQueryStarted, q)
	}

	return q, nil
}

// Complete moves a Processing query to Success or Failed exactly once.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, req CompleteRequest) (*Query, error) {
	status := Status(req.Status)
	if !status.Terminal() {
		return nil, ErrInvalidStatus
	}

	q, err := s.repo.Complete(ctx, id, status, req.ResultSummary, req.ResponseTimeMs)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("query_id", q.ID.String()).
		Str("status", string(q.Status)).
		Msg("query completed")

	if s.feed != nil {
		s.feed.Broadcast(EventQueryCompleted, q)
	}

	return q, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Query, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Query, int, error) {
	return s.repo.List(ctx, filter)
}
