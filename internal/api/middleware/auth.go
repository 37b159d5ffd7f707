package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devlink/bookings-api/internal/api/metrics"
	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// Context keys for the authenticated principal and its resolved role. Use
// the typed accessors below rather than reading these directly.
const (
	principalKey = "auth.principal"
	roleKey      = "auth.role"
)

// RequireRoles returns middleware that authenticates the bearer credential
// and authorizes the caller against the given roles. On success the
// Principal and the resolved role are attached to the request context; on
// failure the pipeline halts with the failure's status and a JSON error
// body. Each request re-resolves the role from scratch.
func RequireRoles(guard ports.AuthGuard, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return err
			}

			ctx := c.Request().Context()
			principal, err := guard.Authenticate(ctx, token)
			if err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			role, err := guard.Authorize(ctx, principal, roles...)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrForbidden):
					metrics.AuthDecisionsTotal.WithLabelValues("forbidden").Inc()
					return echo.NewHTTPError(http.StatusForbidden, "Insufficient role")
				case errors.Is(err, domain.ErrServerMisconfigured):
					metrics.AuthDecisionsTotal.WithLabelValues("misconfigured").Inc()
					return err
				case errors.Is(err, domain.ErrUnauthenticated):
					metrics.AuthDecisionsTotal.WithLabelValues("unauthenticated").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				default:
					return err
				}
			}

			metrics.AuthDecisionsTotal.WithLabelValues("allowed").Inc()
			c.Set(principalKey, principal)
			c.Set(roleKey, role)
			return next(c)
		}
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return parts[1], nil
}

// PrincipalFrom returns the authenticated principal attached by RequireRoles.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// RoleFrom returns the role resolved by RequireRoles for this request.
func RoleFrom(c echo.Context) (domain.Role, bool) {
	r, ok := c.Get(roleKey).(domain.Role)
	return r, ok
}
