package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"winsbygroup.com/leadbook/internal/contact"
)

const exportSheet = "Contacts"

// Export writes contacts as an .xlsx workbook whose first sheet carries the
// import headers, so the file can be edited and imported again.
func Export(w io.Writer, contacts []contact.Contact) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(contact.Fields))
	for i, fld := range contact.Fields {
		header[i] = fld.Header
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range contacts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, contacts[i].Values()); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
