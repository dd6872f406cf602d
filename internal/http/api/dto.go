package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"winsbygroup.com/leadbook/internal/contact"
)

// -------------------------
// Requests
// -------------------------

// Text is a contact cell as sent by clients. Spreadsheet-fed callers send
// phone numbers and the like as JSON numbers, so any scalar is accepted and
// kept as its text form; null is empty.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*t = Text(b)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		n := json.Number(b)
		if i, err := n.Int64(); err == nil {
			*t = Text(strconv.FormatInt(i, 10))
			return nil
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("invalid number %s", b)
		}
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return fmt.Errorf("expected a text value, got %s", b)
	}
	return nil
}

// ContactRequest is the body of a single create or update, and one element
// of a bulk create. Absent fields stay empty; any "id" is ignored.
type ContactRequest struct {
	Action           Text `json:"action"`
	ContactName      Text `json:"contact_name"`
	Title            Text `json:"title"`
	Email            Text `json:"email"`
	Phone            Text `json:"phone"`
	EngagementStatus Text `json:"engagement_status"`
}

func (r ContactRequest) ToContact() contact.Contact {
	return contact.Contact{
		Action:           string(r.Action),
		ContactName:      string(r.ContactName),
		Title:            string(r.Title),
		Email:            string(r.Email),
		Phone:            string(r.Phone),
		EngagementStatus: string(r.EngagementStatus),
	}
}

type BulkCreateRequest struct {
	Users []ContactRequest `json:"users"`
}

func (r BulkCreateRequest) Contacts() []contact.Contact {
	out := make([]contact.Contact, len(r.Users))
	for i, u := range r.Users {
		out[i] = u.ToContact()
	}
	return out
}

// -------------------------
// Responses
// -------------------------

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type BulkCreateResponse struct {
	Message  string `json:"message"`
	Inserted int64  `json:"inserted"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
