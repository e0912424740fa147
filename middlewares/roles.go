package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through when the caller's role is one of
// roles, e.g. RequireRole("admin") or RequireRole("doctor", "nurse", "admin").
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[strings.ToLower(CurrentRole(c))]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}

// CurrentRole is the role RequireAuth put on the context, or "".
func CurrentRole(c echo.Context) string {
	role, _ := c.Get(CtxRole).(string)
	return role
}

// CurrentUserID is the subject RequireAuth put on the context, or 0.
func CurrentUserID(c echo.Context) uint {
	id, _ := c.Get(CtxUserID).(uint)
	return id
}
