package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// AuthGuard verifies bearer credentials and resolves the caller's role
// against two sources: the role claim embedded in the credential (fast
// path) and the authoritative profile store (fallback). profiles may be
// nil when the profile store connection was never configured; in that case
// the fallback fails with ErrServerMisconfigured rather than silently
// allowing or denying.
type AuthGuard struct {
	verifier ports.CredentialVerifier
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewAuthGuard(verifier ports.CredentialVerifier, profiles ports.ProfileRepository, log zerolog.Logger) *AuthGuard {
	return &AuthGuard{verifier: verifier, profiles: profiles, log: log}
}

// Authenticate delegates credential verification. An absent, malformed or
// rejected credential fails with ErrUnauthenticated.
func (g *AuthGuard) Authenticate(ctx context.Context, bearerToken string) (*domain.Principal, error) {
	if bearerToken == "" {
		return nil, domain.ErrUnauthenticated
	}
	principal, err := g.verifier.Verify(ctx, bearerToken)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return principal, nil
}

// Authorize resolves the principal's effective role against allowedRoles.
//
// The embedded claim is checked first: when it is already a member of
// allowedRoles it wins outright with zero store reads. This avoids a
// read-after-write race against the store (row-level restrictions there can
// recursively depend on role) and keeps the common case cheap. Only when
// the claim is absent or insufficient does the authoritative profile decide.
// No resolved role is cached across requests.
func (g *AuthGuard) Authorize(ctx context.Context, principal *domain.Principal, allowedRoles ...domain.Role) (domain.Role, error) {
	if principal == nil {
		return "", domain.ErrUnauthenticated
	}

	role, err := resolveRole(principal.EmbeddedRole, allowedRoles, func() (*domain.Profile, error) {
		if g.profiles == nil {
			return nil, domain.ErrServerMisconfigured
		}
		return g.profiles.FindByID(ctx, principal.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrServerMisconfigured) {
			g.log.Error().
				Str("principal_id", principal.ID).
				Msg("authorization fallback unavailable: profile store connection not configured")
		}
		return "", err
	}
	return role, nil
}

// resolveRole is the two-tier resolution as a pure function over the claim
// and a profile lookup, so precedence is testable without any live store.
// A missing profile and an insufficient role are deliberately
// indistinguishable to the caller: both are ErrForbidden.
func resolveRole(claim domain.Role, allowedRoles []domain.Role, lookup func() (*domain.Profile, error)) (domain.Role, error) {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	if claim != "" {
		if _, ok := allowed[claim]; ok {
			return claim, nil
		}
	}

	profile, err := lookup()
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			return "", domain.ErrForbidden
		case errors.Is(err, domain.ErrServerMisconfigured):
			return "", err
		default:
			return "", fmt.Errorf("resolve role: %w", err)
		}
	}

	if _, ok := allowed[profile.Role]; !ok {
		return "", domain.ErrForbidden
	}
	return profile.Role, nil
}
