package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"canopy/internal/errors"
)

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: errors.ErrUnauthenticated.Error(),
					Code:  "UNAUTHENTICATED",
				})
			}
			return next(c)
		}
	}
}

// RequireRole enforces that the authenticated user holds one of the given
// role IDs. Anonymous callers get 401, wrong-role callers 403.
func RequireRole(roleIDs ...uint) echo.MiddlewareFunc {
	allowed := make(map[uint]bool, len(roleIDs))
	for _, id := range roleIDs {
		allowed[id] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: errors.ErrUnauthenticated.Error(),
					Code:  "UNAUTHENTICATED",
				})
			}
			if !allowed[user.RoleID] {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: errors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
