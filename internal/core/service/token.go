package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devlink/bookings-api/internal/core/domain"
)

// TokenManager issues and verifies HS256 bearer tokens. The issued token
// embeds the profile's role at signing time; that claim is what the
// authorization fast path reads, and it goes stale until the token is
// reissued after a role change.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given profile.
func (m *TokenManager) Issue(p *domain.Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"role":  string(p.Role),
		"exp":   time.Now().Add(m.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates a bearer token and maps its claims onto a
// Principal. Any parse or signature failure surfaces as ErrUnauthenticated.
func (m *TokenManager) Verify(_ context.Context, bearerToken string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(bearerToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrUnauthenticated
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &domain.Principal{
		ID:           sub,
		Email:        email,
		EmbeddedRole: domain.Role(role),
	}, nil
}
