package httpapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/models"
	"github.com/mkalvans/userhub/internal/server/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Username    string  `json:"username" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required"`
	Street      string  `json:"street"`
	HouseNumber string  `json:"house_number"`
	City        string  `json:"city"`
	PostalCode  string  `json:"postal_code"`
	Country     string  `json:"country"`
	Roles       []int64 `json:"roles"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Status   *string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// List returns all active users ordered by id.
func (h *UserHandler) List(c echo.Context) error {
	list, err := h.users.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// ListWithRoles returns active users with their aggregated role names.
func (h *UserHandler) ListWithRoles(c echo.Context) error {
	list, err := h.users.ListActiveWithRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Detail returns a user with its role assignments and metadata.
func (h *UserHandler) Detail(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	detail, err := h.users.GetDetail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Create registers a new user.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", common.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.users.Create(c.Request().Context(), services.CreateUserParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Address: models.Address{
			Street:      req.Street,
			HouseNumber: req.HouseNumber,
			City:        req.City,
			PostalCode:  req.PostalCode,
			Country:     req.Country,
		},
		RoleIDs: req.Roles,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// Update applies the allow-listed field patch.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", common.ErrValidation)
	}

	updated, err := h.users.Update(c.Request().Context(), id, services.UpdateUserParams{
		Username: req.Username,
		Email:    req.Email,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes a user.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deactivated"})
}
