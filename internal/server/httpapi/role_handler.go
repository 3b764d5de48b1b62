package httpapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/services"
)

type RoleHandler struct {
	roles *services.RoleService
}

func NewRoleHandler(roles *services.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type addRoleRequest struct {
	RoleID   *int64 `json:"role_id"`
	RoleName string `json:"role_name"`
}

// List returns all roles.
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// UserRoles returns a user's role assignments with their timestamps.
func (h *RoleHandler) UserRoles(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	assignments, err := h.roles.GetUserRoles(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignments)
}

// AddRole assigns a role, given by id or name, to a user. The assigning user
// is the authenticated caller.
func (h *RoleHandler) AddRole(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req addRoleRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", common.ErrValidation)
	}

	err = h.roles.AddRole(c.Request().Context(), id, services.AddRoleParams{
		RoleID:     req.RoleID,
		RoleName:   req.RoleName,
		AssignedBy: callerID(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "role assigned"})
}

// UserPermissions returns the resolved permission set of a user.
func (h *RoleHandler) UserPermissions(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	perms, err := h.roles.ResolvePermissions(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perms)
}
