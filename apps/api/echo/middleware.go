package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/eduplaybd/eduplay/core/user"
)

// adminMiddleware only allows access to Admin users.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if ok := contextHasAnyRole(ctx, []string{user.RoleAdmin}); !ok {
				return errHTTPForbidden
			}
			return next(ctx)
		}
	}
}
