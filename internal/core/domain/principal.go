package domain

import "errors"

// Role is the authorization level attached to a profile.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Principal is an authenticated caller within the scope of one request.
// EmbeddedRole carries the role claim from the credential itself; it is
// refreshed only when the token is reissued, so it may lag a recent
// promotion. An empty EmbeddedRole means the credential carried no claim.
type Principal struct {
	ID           string
	Email        string
	EmbeddedRole Role
}

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("access forbidden")
	ErrServerMisconfigured = errors.New("server misconfigured")
)
