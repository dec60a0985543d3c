package handlers

import (
	"net/http"

	"crmhub/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles the admin-only user management endpoints.
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// GetUserByEmail returns a user's profile by email.
func (h *UserHandlers) GetUserByEmail(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.Param("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	user, err := h.userService.GetByEmail(ctx, email)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, userToResponse(user))
}

// ActivateUser re-enables a user account.
func (h *UserHandlers) ActivateUser(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.Param("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	if err := h.userService.ActivateUser(ctx, email); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User activated"})
}

// DeactivateUser disables a user account. Login is rejected while disabled.
func (h *UserHandlers) DeactivateUser(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.Param("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	if err := h.userService.DeactivateUser(ctx, email); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User deactivated"})
}
