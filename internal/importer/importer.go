// Package importer turns spreadsheet files into staged contacts and writes
// contacts back out as a workbook with the same headers.
//
// Only the first sheet is read. Its first row is the header row; columns are
// matched to contact fields by exact header text (see contact.Fields) and any
// other column is ignored. Missing cells become empty strings. No validation
// is done here: staged rows go to the bulk create path as they are.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"winsbygroup.com/leadbook/internal/contact"
)

// FormatError reports a file that could not be read as a spreadsheet.
type FormatError struct {
	Filename string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("read spreadsheet %q: %v", e.Filename, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Parse reads the whole file and returns one contact per non-blank data row,
// in sheet order. CSV is chosen by the ".csv" extension; everything else is
// opened as an Excel workbook.
func Parse(r io.Reader, filename string) ([]contact.Contact, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Filename: filename, Err: err}
	}

	var rows [][]string
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		rows, err = csvRows(data)
	} else {
		rows, err = workbookRows(data)
	}
	if err != nil {
		return nil, &FormatError{Filename: filename, Err: err}
	}

	return MapRows(rows), nil
}

// MapRows maps a header row plus data rows onto contacts. The header is the
// first non-blank row; excelize pads a sheet whose used range starts lower
// down with empty leading rows.
func MapRows(rows [][]string) []contact.Contact {
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return []contact.Contact{}
	}

	// column index -> field; the first column with a given header wins
	columns := map[int]contact.Field{}
	taken := map[string]bool{}
	for i, h := range rows[0] {
		f, ok := contact.FieldByHeader(h)
		if !ok || taken[f.Column] {
			continue
		}
		columns[i] = f
		taken[f.Column] = true
	}

	out := make([]contact.Contact, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var c contact.Contact
		for i, f := range columns {
			if i < len(row) {
				f.Set(&c, row[i])
			}
		}
		out = append(out, c)
	}
	return out
}

func blank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func workbookRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func csvRows(data []byte) ([][]string, error) {
	// BOMOverride switches to UTF-16 when a UTF-16 BOM is present and strips
	// a UTF-8 BOM otherwise.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(bytes.NewReader(data), dec))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}
