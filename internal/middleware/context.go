package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/leadbook/internal/version"
)

type versionKey struct{}

// Version adds the app version to the request context for page footers.
func Version() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), versionKey{}, version.Version)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetVersion retrieves the version from context.
func GetVersion(ctx context.Context) string {
	if v, ok := ctx.Value(versionKey{}).(string); ok {
		return v
	}
	return version.Version
}
