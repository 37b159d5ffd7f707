package ports

import (
	"context"

	"github.com/devlink/bookings-api/internal/core/domain"
)

// CredentialVerifier checks a bearer credential and extracts the caller's
// identity plus any role claim embedded in the credential itself.
type CredentialVerifier interface {
	Verify(ctx context.Context, bearerToken string) (*domain.Principal, error)
}

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Profile, error)
}

// AuthGuard yields an allow/deny decision plus the resolved role for a
// request. Authenticate and Authorize are separate so the route wrapper can
// report missing credentials and insufficient roles distinctly.
type AuthGuard interface {
	Authenticate(ctx context.Context, bearerToken string) (*domain.Principal, error)
	Authorize(ctx context.Context, principal *domain.Principal, allowedRoles ...domain.Role) (domain.Role, error)
}

// AuthService implements account registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (string, *domain.Profile, error)
}

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}
