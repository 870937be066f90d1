package exchange

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/registry"
)

const xlsxSheet = "Parameters"

// ExportXLSX writes the same table as Export to a spreadsheet. Cell layout
// mirrors the CSV contract row for row.
func ExportXLSX(w io.Writer, doc *registry.Document, addinVersion string) error {
	f := excelize.NewFile()
	defer f.Close()

	// excelize seeds a default sheet; rename it rather than juggling two.
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("exchange: prepare sheet: %w", err)
	}

	rows := [][]any{
		{"Add-in version", addinVersion},
		{"File format version", FileFormatVersion},
		{},
		{"ID", "Text", "Sketches"},
	}
	for _, e := range doc.Entries() {
		row := []any{e.ID(), e.Template()}
		for _, b := range e.Bindings() {
			row = append(row, b.Hint.Sketch)
		}
		rows = append(rows, row)
	}

	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("exchange: address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(xlsxSheet, addr, &row); err != nil {
			return fmt.Errorf("exchange: write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("exchange: write workbook: %w", err)
	}
	log.Info(log.CatCodec, "exported entries", "format", "xlsx", "entries", doc.Len())
	return nil
}
