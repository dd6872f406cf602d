package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

type csrfKey struct{}

// CSRF copies the token Echo's CSRF middleware stored under "csrf" into the
// request context so templates can render it. Must run after that middleware.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := c.Get("csrf").(string); ok {
				ctx := context.WithValue(c.Request().Context(), csrfKey{}, token)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// GetCSRFToken retrieves the CSRF token from context.
func GetCSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(csrfKey{}).(string); ok {
		return token
	}
	return ""
}
