package officer

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pickme/intel-api/internal/middleware"
	"github.com/pickme/intel-api/internal/pkg/jwt"
	"github.com/pickme/intel-api/internal/pkg/password"
)

// Service handles officer accounts and officer authentication.
type Service struct {
	repo             Repository
	jwtService       *jwt.Service
	defaultRateLimit int
}

func NewService(repo Repository, jwtService *jwt.Service, defaultRateLimit int) *Service {
	return &Service{repo: repo, jwtService: jwtService, defaultRateLimit: defaultRateLimit}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Officer, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Officer{
		ID:               uuid.New(),
		Name:             req.Name,
		Mobile:           NormalizeMobile(req.Mobile),
		PasswordHash:     hash,
		Status:           StatusActive,
		RateLimitPerHour: req.RateLimitPerHour,
		ProAccessEnabled: req.ProAccessEnabled,
		RegisteredOn:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if o.RateLimitPerHour <= 0 {
		o.RateLimitPerHour = s.defaultRateLimit
	}
	o.Email = nullString(strings.ToLower(req.Email))
	o.TelegramID = nullString(req.TelegramID)
	o.Department = nullString(req.Department)
	o.Rank = nullString(req.Rank)
	o.BadgeNumber = nullString(req.BadgeNumber)
	o.Station = nullString(req.Station)

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	log.Info().
		Str("officer_id", o.ID.String()).
		Str("mobile", o.Mobile).
		Msg("officer registered")

	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Officer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Officer, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Officer, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Email != nil {
		o.Email = nullString(strings.ToLower(*req.Email))
	}
	if req.TelegramID != nil {
		o.TelegramID = nullString(*req.TelegramID)
	}
	if req.Department != nil {
		o.Department = nullString(*req.Department)
	}
	if req.Rank != nil {
		o.Rank = nullString(*req.Rank)
	}
	if req.BadgeNumber != nil {
		o.BadgeNumber = nullString(*req.BadgeNumber)
	}
	if req.Station != nil {
		o.Station = nullString(*req.Station)
	}
	if req.RateLimitPerHour != nil {
		o.RateLimitPerHour = *req.RateLimitPerHour
	}
	if req.ProAccessEnabled != nil {
		o.ProAccessEnabled = *req.ProAccessEnabled
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		o.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes an officer with no history. Officers referenced by ledger
// or query rows must be suspended instead, preserving the audit trail.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	referenced, err := s.repo.HasReferences(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrOfficerReferenced
	}
	return s.repo.Delete(ctx, id)
}

// Authenticate verifies an identifier (email or mobile) and password and
// issues an officer token.
func (s *Service) Authenticate(ctx context.Context, identifier, plaintext string) (*LoginResponse, error) {
	o, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrOfficerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, o.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if o.Status != StatusActive {
		return nil, ErrOfficerSuspended
	}

	token, err := s.jwtService.Generate(o.ID)
	if err != nil {
		return nil, err
	}

	_ = s.repo.TouchLastActive(ctx, o.ID)

	log.Info().
		Str("officer_id", o.ID.String()).
		Msg("officer login")

	return &LoginResponse{Token: token, Officer: o}, nil
}

// VerifyActive re-resolves the officer row so a suspension takes effect on
// the next request, not at token expiry.
func (s *Service) VerifyActive(ctx context.Context, id uuid.UUID) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOfficerNotFound) {
			return middleware.ErrIdentityNotFound
		}
		return err
	}
	if o.Status != StatusActive {
		return middleware.ErrIdentitySuspended
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
