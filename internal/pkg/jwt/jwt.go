package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	// SubjectAdmin marks tokens issued to admin panel users
	SubjectAdmin = "admin"
	// SubjectOfficer marks tokens issued to field officers
	SubjectOfficer = "officer"
)

// Claims represents bearer token claims. Tokens are opaque capability hints:
// the identity row is re-resolved from the database on every privileged call,
// so no ledger or role state in here is ever treated as authoritative.
type Claims struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Kind       string    `json:"kind"` // admin | officer
	jwt.RegisteredClaims
}

// Service handles JWT operations
type Service struct {
	secret []byte
	ttl    time.Duration
	kind   string
}

// NewService creates a JWT service for one identity kind
func NewService(secret, kind string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, kind: kind}
}

// Generate issues a signed token for the given identity
func (s *Service) Generate(identityID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		IdentityID: identityID,
		Kind:       s.kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
			Issuer:    "pickme-intel",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses the token and checks it was issued for this service's kind
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != s.kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL returns the configured token lifetime
func (s *Service) TTL() time.Duration { return s.ttl }
