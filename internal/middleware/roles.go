package middleware

import (
	"net/http"

	"crmhub/internal/common"
	"crmhub/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole gates a route to the given roles. It runs after JWTMiddleware
// and rejects the request before the handler when the caller's role is not
// in the allowed set.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetUserRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
