package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/importer"
)

const (
	msgNotFound      = "User not found"
	msgInvalidBody   = "Invalid request body"
	msgInvalidFormat = "Invalid data format"
)

type Handler struct {
	svc *contact.Service
}

func NewHandler(svc *contact.Service) *Handler {
	return &Handler{svc: svc}
}

// GET /users
func (h *Handler) ListUsers(c echo.Context) error {
	out, err := h.svc.GetAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /users
func (h *Handler) CreateUser(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}
	ct := req.ToContact()

	created, err := h.svc.Create(c.Request().Context(), &ct)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, CreateResponse{
		Message: "User added successfully",
		ID:      created.ID,
	})
}

// POST /users/bulk
func (h *Handler) BulkCreateUsers(c echo.Context) error {
	var req BulkCreateRequest
	if err := c.Bind(&req); err != nil || len(req.Users) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidFormat})
	}

	inserted, err := h.svc.BulkCreate(c.Request().Context(), req.Contacts())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, BulkCreateResponse{
		Message:  "Users imported successfully",
		Inserted: inserted,
	})
}

// PUT /users/:id
func (h *Handler) UpdateUser(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}
	ct := req.ToContact()
	// Required fields are checked before the id so a bad body is a 400 even
	// for an unknown id.
	if err := ct.Validate(); err != nil {
		return h.fail(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNotFound})
	}
	ct.ID = id

	if err := h.svc.Update(c.Request().Context(), &ct); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User updated successfully"})
}

// DELETE /users/:id
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNotFound})
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// GET /users/export
func (h *Handler) ExportUsers(c echo.Context) error {
	out, err := h.svc.GetAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="contacts.xlsx"`)
	res.WriteHeader(http.StatusOK)
	return importer.Export(res, out)
}

// fail maps service errors onto status codes. Store errors pass their
// message through unchanged.
func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case contact.IsValidation(err):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, contact.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: msgNotFound})
	case errors.Is(err, contact.ErrEmptyBatch):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidFormat})
	default:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
