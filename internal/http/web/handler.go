package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/importer"
	"winsbygroup.com/leadbook/internal/middleware"
	vm "winsbygroup.com/leadbook/internal/viewmodels"
	"winsbygroup.com/leadbook/templates/pages"
)

const (
	msgAllFieldsRequired = "All fields are required!"
	msgNothingStaged     = "No data to upload. Please select a file first."
	msgUploaded          = "Data uploaded successfully!"
	msgUnreadableFile    = "Could not read the selected file."
)

// Handler serves the browser client
type Handler struct {
	svc *contact.Service
}

// NewHandler creates a new web handler
func NewHandler(svc *contact.Service) *Handler {
	return &Handler{svc: svc}
}

// load re-reads every contact; each page render starts from the store.
func (h *Handler) load(ctx context.Context) (vm.PageData, error) {
	contacts, err := h.svc.GetAll(ctx)
	if err != nil {
		return vm.PageData{}, err
	}
	return vm.PageData{
		Contacts: contacts,
		Version:  middleware.GetVersion(ctx),
	}, nil
}

// Index renders the contacts page. ?form=new opens a blank form, ?edit=<id>
// opens the form pre-filled from the listed contact.
func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.load(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if c.QueryParam("form") == "new" {
		d.Form = &vm.FormState{}
	}
	if id, err := strconv.ParseInt(c.QueryParam("edit"), 10, 64); err == nil {
		for _, ct := range d.Contacts {
			if ct.ID == id {
				d.Form = &vm.FormState{EditingID: id, Values: ct}
				break
			}
		}
	}
	if c.QueryParam("uploaded") != "" {
		d.Flash = msgUploaded
	}

	return render(c, http.StatusOK, pages.Contacts(d))
}

// SaveContact handles the popup form: update when an id is posted, create
// otherwise. The form insists on every field before calling the service.
func (h *Handler) SaveContact(c echo.Context) error {
	ctx := c.Request().Context()

	form := &vm.FormState{}
	for _, f := range contact.Fields {
		f.Set(&form.Values, c.FormValue(f.Column))
	}
	if v := c.FormValue("id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		form.EditingID = id
		form.Values.ID = id
	}

	for _, f := range contact.Fields {
		if f.Get(&form.Values) == "" {
			form.Error = msgAllFieldsRequired
			return h.renderWithForm(c, http.StatusUnprocessableEntity, form)
		}
	}

	var err error
	if form.EditingID != 0 {
		err = h.svc.Update(ctx, &form.Values)
	} else {
		_, err = h.svc.Create(ctx, &form.Values)
	}
	if err != nil {
		// leave the form open with what the user typed
		c.Logger().Errorf("save contact: %v", err)
		return h.renderWithForm(c, http.StatusOK, form)
	}

	return c.Redirect(http.StatusSeeOther, "/web/")
}

// DeleteContact removes a contact and returns to the refreshed list.
func (h *Handler) DeleteContact(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		c.Logger().Errorf("delete contact %d: %v", id, err)
	}
	return c.Redirect(http.StatusSeeOther, "/web/")
}

// PreviewImport parses the chosen file and shows its rows as the new staged
// set. On a parse failure the previously staged rows are kept.
func (h *Handler) PreviewImport(c echo.Context) error {
	staged := decodeStaged(c.FormValue("staged"))

	file, err := c.FormFile("file")
	if err != nil {
		return h.renderWithStaged(c, staged, "")
	}
	src, err := file.Open()
	if err != nil {
		c.Logger().Errorf("open upload: %v", err)
		return h.renderWithStaged(c, staged, msgUnreadableFile)
	}
	defer src.Close()

	rows, err := importer.Parse(src, file.Filename)
	if err != nil {
		c.Logger().Errorf("import preview: %v", err)
		return h.renderWithStaged(c, staged, msgUnreadableFile)
	}
	return h.renderWithStaged(c, rows, "")
}

// ConfirmImport bulk-creates the staged rows, then clears them.
func (h *Handler) ConfirmImport(c echo.Context) error {
	staged := decodeStaged(c.FormValue("staged"))
	if len(staged) == 0 {
		return h.renderWithStaged(c, nil, msgNothingStaged)
	}

	inserted, err := h.svc.BulkCreate(c.Request().Context(), staged)
	if err != nil {
		c.Logger().Errorf("bulk import: %v", err)
		return h.renderWithStaged(c, staged, "")
	}
	c.Logger().Infof("imported %d contacts", inserted)

	return c.Redirect(http.StatusSeeOther, "/web/?uploaded="+strconv.FormatInt(inserted, 10))
}

func (h *Handler) renderWithForm(c echo.Context, status int, form *vm.FormState) error {
	d, err := h.load(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	d.Form = form
	return render(c, status, pages.Contacts(d))
}

func (h *Handler) renderWithStaged(c echo.Context, staged []contact.Contact, alert string) error {
	d, err := h.load(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	d.Staged = staged
	d.StagedJSON = encodeStaged(staged)
	d.Alert = alert
	return render(c, http.StatusOK, pages.Contacts(d))
}

func encodeStaged(staged []contact.Contact) string {
	if len(staged) == 0 {
		return ""
	}
	b, err := json.Marshal(staged)
	if err != nil {
		return ""
	}
	return string(b)
}

// decodeStaged treats anything unreadable as nothing staged.
func decodeStaged(s string) []contact.Contact {
	if s == "" {
		return nil
	}
	var out []contact.Contact
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func render(c echo.Context, status int, page templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return page.Render(c.Request().Context(), c.Response())
}
