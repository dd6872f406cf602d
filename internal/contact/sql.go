package contact

import (
	"fmt"
	"strings"
)

// Column lists are derived from Fields so that the statements stay in sync
// with the importer and the web form.
var (
	columnList   = columns("")
	namedList    = columns(":")
	placeholders = strings.TrimSuffix(strings.Repeat("?, ", len(Fields)), ", ")
)

func columns(prefix string) string {
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = prefix + f.Column
	}
	return strings.Join(names, ", ")
}

func assignments() string {
	sets := make([]string, len(Fields))
	for i, f := range Fields {
		sets[i] = f.Column + " = ?"
	}
	return strings.Join(sets, ", ")
}

var getAllContactsSQL = fmt.Sprintf(`
SELECT id, %s
FROM users
ORDER BY id
`, columnList)

var getContactSQL = fmt.Sprintf(`
SELECT id, %s
FROM users
WHERE id = ?
`, columnList)

var createContactSQL = fmt.Sprintf(`
INSERT INTO users (%s) VALUES (%s)
`, columnList, placeholders)

// bulkCreateContactsSQL is expanded by sqlx into a single multi-row VALUES
// list when executed with a slice.
var bulkCreateContactsSQL = fmt.Sprintf(`
INSERT INTO users (%s) VALUES (%s)
`, columnList, namedList)

var updateContactSQL = fmt.Sprintf(`
UPDATE users
SET %s
WHERE id = ?
`, assignments())

const deleteContactSQL = `
DELETE FROM users
WHERE id = ?
`

const countContactsSQL = `
SELECT COUNT(*) FROM users
`
