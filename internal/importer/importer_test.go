package importer_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/importer"
)

var headers = []any{"Action", "Contact Name", "Title", "Email", "Phone", "Engagement Status"}

// workbook builds an in-memory .xlsx with rows written to the first sheet.
func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbookMapsHeaders(t *testing.T) {
	data := workbook(t,
		headers,
		[]any{"call", "Jane Doe", "CTO", "jane@x.com", "555-1111", "new"},
	)

	got, err := importer.Parse(bytes.NewReader(data), "leads.xlsx")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, contact.Contact{
		Action:           "call",
		ContactName:      "Jane Doe",
		Title:            "CTO",
		Email:            "jane@x.com",
		Phone:            "555-1111",
		EngagementStatus: "new",
	}, got[0])
}

func TestParseUnrecognizedHeaderLeavesFieldEmpty(t *testing.T) {
	data := workbook(t,
		[]any{"Action", "Name", "Title", "email", "Phone", "Engagement Status", "Notes"},
		[]any{"call", "Jane Doe", "CTO", "jane@x.com", "555-1111", "new", "ignored"},
		[]any{"email", "John Roe", "CEO", "john@x.com", "555-2222", "cold", "ignored"},
	)

	got, err := importer.Parse(bytes.NewReader(data), "leads.xlsx")
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, c := range got {
		assert.Empty(t, c.ContactName, "Name is not a recognized header")
		assert.Empty(t, c.Email, "header match is case-sensitive")
	}
	assert.Equal(t, "CEO", got[1].Title)
	assert.Equal(t, "cold", got[1].EngagementStatus)
}

func TestParseMissingCellsBecomeEmpty(t *testing.T) {
	data := workbook(t,
		headers,
		[]any{"", "Only Name"},
		[]any{},
		[]any{"visit", "", "", "x@x.com"},
	)

	got, err := importer.Parse(bytes.NewReader(data), "leads.xlsx")
	require.NoError(t, err)
	require.Len(t, got, 2, "blank rows are skipped")

	assert.Equal(t, contact.Contact{ContactName: "Only Name"}, got[0])
	assert.Equal(t, contact.Contact{Action: "visit", Email: "x@x.com"}, got[1])
}

func TestParseReadsFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &headers))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"call", "First Sheet"}))

	_, err := f.NewSheet("Second")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Second", "A1", &headers))
	require.NoError(t, f.SetSheetRow("Second", "A2", &[]any{"call", "Second Sheet"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := importer.Parse(bytes.NewReader(buf.Bytes()), "leads.xlsx")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "First Sheet", got[0].ContactName)
}

func TestParseHeaderBelowLeadingBlankRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "B3", &headers))
	row := []any{"email", "Jane Doe", "CTO", "jane@x.com", "555-1111", "warm"}
	require.NoError(t, f.SetSheetRow("Sheet1", "B4", &row))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := importer.Parse(bytes.NewReader(buf.Bytes()), "offset.xlsx")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, contact.Contact{
		Action:           "email",
		ContactName:      "Jane Doe",
		Title:            "CTO",
		Email:            "jane@x.com",
		Phone:            "555-1111",
		EngagementStatus: "warm",
	}, got[0])
}

func TestMapRowsSkipsLeadingBlankRows(t *testing.T) {
	got := importer.MapRows([][]string{
		nil,
		{"", ""},
		{"", "Contact Name", "Email"},
		{"", "A", "a@x.com"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ContactName)
	assert.Equal(t, "a@x.com", got[0].Email)

	assert.Empty(t, importer.MapRows([][]string{nil, {""}}))
}

func TestParseHeaderOnly(t *testing.T) {
	got, err := importer.Parse(bytes.NewReader(workbook(t, headers)), "leads.xlsx")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseCSV(t *testing.T) {
	csvData := "Contact Name,Email,Action\nA,a@x.com,call\nB,b@x.com\n"

	got, err := importer.Parse(strings.NewReader(csvData), "leads.CSV")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, contact.Contact{ContactName: "A", Email: "a@x.com", Action: "call"}, got[0])
	assert.Equal(t, contact.Contact{ContactName: "B", Email: "b@x.com"}, got[1])
}

func TestParseCSVWithBOM(t *testing.T) {
	t.Run("utf-8", func(t *testing.T) {
		data := "\xef\xbb\xbfAction,Contact Name\ncall,A\n"
		got, err := importer.Parse(strings.NewReader(data), "leads.csv")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "call", got[0].Action, "BOM must not leak into the first header")
	})

	t.Run("utf-16", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := enc.String("Action,Contact Name\ncall,Ünal\n")
		require.NoError(t, err)

		got, err := importer.Parse(strings.NewReader(data), "leads.csv")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ünal", got[0].ContactName)
	})
}

func TestParseMalformedFile(t *testing.T) {
	_, err := importer.Parse(strings.NewReader("definitely not a workbook"), "leads.xlsx")
	require.Error(t, err)

	var fe *importer.FormatError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, "leads.xlsx", fe.Filename)
}

func TestExportRoundTrip(t *testing.T) {
	in := []contact.Contact{
		{ID: 7, Action: "call", ContactName: "Jane Doe", Title: "CTO", Email: "jane@x.com", Phone: "555-1111", EngagementStatus: "new"},
		{ID: 9, ContactName: "John Roe", Email: "john@x.com"},
	}

	var buf bytes.Buffer
	require.NoError(t, importer.Export(&buf, in))

	got, err := importer.Parse(&buf, "export.xlsx")
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range in {
		want := in[i]
		want.ID = 0 // ids are not part of the import format
		assert.Equal(t, want, got[i])
	}
}
