package api

import "github.com/labstack/echo/v4"

// RegisterRoutes wires the contact endpoints under the given group (/api).
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.POST("/users/bulk", h.BulkCreateUsers)
	g.GET("/users/export", h.ExportUsers)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)
}
