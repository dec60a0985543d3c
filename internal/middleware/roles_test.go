package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"crmhub/internal/common"
	"crmhub/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoleCheck(role *models.Role, allowed ...models.Role) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != nil {
		ctx := context.WithValue(req.Context(), common.UserRoleKey, *role)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireRole_AllowedRole(t *testing.T) {
	role := models.RoleAdmin
	err := runRoleCheck(&role, models.RoleAdmin, models.RoleManager)

	assert.NoError(t, err)
}

func TestRequireRole_ForbiddenRole(t *testing.T) {
	role := models.RoleUser
	err := runRoleCheck(&role, models.RoleAdmin, models.RoleManager)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, "Insufficient permissions", httpErr.Message)
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	err := runRoleCheck(nil, models.RoleAdmin)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "User not authenticated", httpErr.Message)
}
