package admin

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pickme/intel-api/internal/pkg/jwt"
	"github.com/pickme/intel-api/internal/pkg/password"
)

// Service handles admin accounts and admin authentication.
type Service struct {
	repo       Repository
	jwtService *jwt.Service
}

func NewService(repo Repository, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, jwtService: jwtService}
}

// Login verifies admin credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, plaintext, ip string) (*LoginResponse, error) {
	a, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !a.IsActive {
		return nil, ErrAdminInactive
	}

	token, err := s.jwtService.Generate(a.ID)
	if err != nil {
		return nil, err
	}

	_ = s.repo.UpdateLastLogin(ctx, a.ID, ip)

	log.Info().
		Str("admin_id", a.ID.String()).
		Str("role", string(a.Role)).
		Msg("admin login")

	return &LoginResponse{Token: token, Admin: a}, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]AdminUser, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*AdminUser, error) {
	role := Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &AdminUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Name != "" {
		a.Name = sql.NullString{String: req.Name, Valid: true}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	log.Info().
		Str("admin_id", a.ID.String()).
		Str("role", string(a.Role)).
		Msg("admin account created")

	return a, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*AdminUser, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			a.Name = sql.NullString{}
		} else {
			a.Name = sql.NullString{String: *req.Name, Valid: true}
		}
	}
	if req.Role != nil {
		role := Role(*req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		a.Role = role
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}
