package middleware

import (
	"context"
	"net/http"
	"strings"

	"crmhub/internal/common"
	"crmhub/internal/repositories"
	"crmhub/internal/services"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the bearer token, resolves the user it names and
// stores the identity in the request context. Requests with a missing,
// malformed, expired or unknown-subject token never reach a handler.
func JWTMiddleware(tokens services.TokenService, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			email, err := tokens.Subject(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			user, err := userRepo.GetByEmail(c.Request().Context(), email)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, user.ID)
			ctx = context.WithValue(ctx, common.UserEmailKey, user.Email)
			ctx = context.WithValue(ctx, common.UserRoleKey, user.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
