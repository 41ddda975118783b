package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pickme/intel-api/internal/pkg/jwt"
	"github.com/pickme/intel-api/internal/pkg/response"
)

type contextKey string

const (
	OfficerIDKey contextKey = "officer_id"
)

// Sentinel errors an OfficerResolver maps its domain errors onto.
var (
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrIdentitySuspended = errors.New("identity suspended")
)

// OfficerResolver re-resolves the officer row on every privileged call so a
// suspension takes effect immediately, regardless of token contents.
type OfficerResolver interface {
	VerifyActive(ctx context.Context, id uuid.UUID) error
}

// OfficerAuth returns middleware that validates an officer bearer token
func OfficerAuth(jwtService *jwt.Service, resolver OfficerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.Validate(parts[1])
			if err != nil {
				if errors.Is(err, jwt.ErrExpiredToken) {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			if err := resolver.VerifyActive(r.Context(), claims.IdentityID); err != nil {
				switch {
				case errors.Is(err, ErrIdentitySuspended):
					response.Forbidden(w, "Account suspended")
				case errors.Is(err, ErrIdentityNotFound):
					response.Unauthorized(w, "Officer not found")
				default:
					response.InternalError(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), OfficerIDKey, claims.IdentityID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOfficerID extracts officer ID from context
func GetOfficerID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(OfficerIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
