package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"retailclean/pkg/records"
)

// Sheet names in the workbook.
const (
	SheetCleaned  = "cleaned"
	SheetSegments = "segments"
)

// sheetData is one worksheet: a header and the rows aligned to it.
type sheetData struct {
	name    string
	columns []string
	rows    []records.Record
}

// writeXLSX writes every sheet into a new workbook at path. Numbers and
// booleans keep their native cell types; dates are written as text in the
// same form as the CSV artifacts.
func writeXLSX(path string, sheets ...sheetData) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return fmt.Errorf("xlsx: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("xlsx: new sheet %s: %w", sh.name, err)
		}

		header := make([]any, len(sh.columns))
		for j, c := range sh.columns {
			header[j] = c
		}
		if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
			return fmt.Errorf("xlsx: %s header: %w", sh.name, err)
		}

		row := make([]any, len(sh.columns))
		for n, r := range sh.rows {
			for j, c := range sh.columns {
				row[j] = xlsxValue(r[c])
			}
			cell, err := excelize.CoordinatesToCellName(1, n+2)
			if err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("xlsx: %s row %d: %w", sh.name, n+2, err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}

func xlsxValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return FormatCell(t)
	default:
		return v
	}
}
