package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/bookings-api/internal/api/middleware"
	"github.com/devlink/bookings-api/internal/core/domain"
)

// ctxIdentity extracts the principal and resolved role attached by the
// route wrapper. Presence proves the guard ran; its absence on a protected
// route means the route was wired without RequireRoles, which is a server
// bug surfaced as 401 rather than an open door.
func ctxIdentity(c echo.Context) (*domain.Principal, domain.Role, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	role, ok := middleware.RoleFrom(c)
	if !ok {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return principal, role, nil
}
