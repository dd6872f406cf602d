package contact

// Contact is a single lead/contact record. Column and JSON names are shared,
// and the field order is the order of Fields.
type Contact struct {
	ID               int64  `db:"id" json:"id"`
	Action           string `db:"action" json:"action"`
	ContactName      string `db:"contact_name" json:"contact_name"`
	Title            string `db:"title" json:"title"`
	Email            string `db:"email" json:"email"`
	Phone            string `db:"phone" json:"phone"`
	EngagementStatus string `db:"engagement_status" json:"engagement_status"`
}

// Field describes one editable column of a contact. Importer headers, the
// export workbook, the web form and the SQL column lists are all built from
// Fields, so a new column only has to be added here (and in a migration).
type Field struct {
	Column string // column, JSON key and form field name
	Header string // spreadsheet header, also used as the form label
	ref    func(c *Contact) *string
}

// Get returns the field's value on c.
func (f Field) Get(c *Contact) string {
	return *f.ref(c)
}

// Ptr exposes the field's storage on c, for flag binding.
func (f Field) Ptr(c *Contact) *string {
	return f.ref(c)
}

// Set assigns v to the field on c.
func (f Field) Set(c *Contact, v string) {
	*f.ref(c) = v
}

var Fields = []Field{
	{Column: "action", Header: "Action", ref: func(c *Contact) *string { return &c.Action }},
	{Column: "contact_name", Header: "Contact Name", ref: func(c *Contact) *string { return &c.ContactName }},
	{Column: "title", Header: "Title", ref: func(c *Contact) *string { return &c.Title }},
	{Column: "email", Header: "Email", ref: func(c *Contact) *string { return &c.Email }},
	{Column: "phone", Header: "Phone", ref: func(c *Contact) *string { return &c.Phone }},
	{Column: "engagement_status", Header: "Engagement Status", ref: func(c *Contact) *string { return &c.EngagementStatus }},
}

// FieldByHeader returns the field whose spreadsheet header is exactly h.
func FieldByHeader(h string) (Field, bool) {
	for _, f := range Fields {
		if f.Header == h {
			return f, true
		}
	}
	return Field{}, false
}

// Values returns the field values of c in Fields order.
func (c *Contact) Values() []any {
	out := make([]any, len(Fields))
	for i, f := range Fields {
		out[i] = f.Get(c)
	}
	return out
}

// Validate checks the fields required for a single create or update.
// Bulk imports skip this check.
func (c *Contact) Validate() error {
	if c.ContactName == "" || c.Email == "" {
		return &ValidationError{Message: "Contact name and email are required"}
	}
	return nil
}
