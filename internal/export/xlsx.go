package export

import (
	"fmt"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Excel renders every section of the report as a sheet of a real XLSX
// workbook. The source system shipped mislabeled HTML here; this is the
// documented upgrade, so the bytes match the MIME type.
func Excel(report domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	tables := Tables(report)
	if len(tables) == 0 {
		tables = []Table{PrimaryTable(report)}
	}

	for i, table := range tables {
		sheet := sheetName(table.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("new sheet %s: %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, table); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, table Table) error {
	header := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d on %s: %w", row, sheet, err)
	}
	return nil
}

// sheetName keeps section names inside Excel's 31-character sheet limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
