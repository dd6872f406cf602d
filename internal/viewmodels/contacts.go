// Package viewmodels holds the data the web templates render.
package viewmodels

import "winsbygroup.com/leadbook/internal/contact"

// PageData is everything the contacts page shows. The page is rebuilt from a
// fresh store read on every request; only the staged import rows travel with
// the browser (as JSON in hidden form fields).
type PageData struct {
	Contacts   []contact.Contact
	Staged     []contact.Contact
	StagedJSON string
	Form       *FormState // nil when the popup is closed
	Flash      string
	Alert      string
	Version    string
}

// FormState is the add/edit popup. EditingID is zero for "add".
type FormState struct {
	EditingID int64
	Values    contact.Contact
	Error     string
}
