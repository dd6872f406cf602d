package web

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all web UI routes
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/", h.Index)
	g.GET("", h.Index)

	g.POST("/contacts", h.SaveContact)
	g.POST("/contacts/:id/delete", h.DeleteContact)

	g.POST("/import/preview", h.PreviewImport)
	g.POST("/import/confirm", h.ConfirmImport)
}
