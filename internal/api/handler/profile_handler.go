package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// ProfileHandler exposes the administrative role-promotion endpoint. Role
// changes take effect in the authoritative store immediately; tokens issued
// before the change keep their stale embedded claim until reissued.
type ProfileHandler struct {
	profiles ports.ProfileRepository
}

func NewProfileHandler(profiles ports.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer admin"`
}

// UpdateRole handles PUT /v1/admin/profiles/:id/role.
//
// @Summary      Update a profile's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Profile ID"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  domain.Profile
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/profiles/{id}/role [put]
func (h *ProfileHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	profile, err := h.profiles.UpdateRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}
