package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"winsbygroup.com/leadbook/internal/contact"
)

// printContacts writes contacts as a table, or as a JSON array in json mode.
func printContacts(w io.Writer, format string, contacts []contact.Contact) error {
	if format == "json" {
		if contacts == nil {
			contacts = []contact.Contact{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(contacts)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headers := []string{"ID"}
	for _, f := range contact.Fields {
		headers = append(headers, f.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for i := range contacts {
		row := []string{strconv.FormatInt(contacts[i].ID, 10)}
		for _, f := range contact.Fields {
			row = append(row, f.Get(&contacts[i]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printMessage writes a one-line status, skipped in json mode so stdout
// stays parseable.
func printMessage(w io.Writer, format, msg string, args ...any) {
	if format == "json" {
		return
	}
	fmt.Fprintf(w, msg+"\n", args...)
}
