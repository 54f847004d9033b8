package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX writes t as a single-sheet workbook.
func XLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("export: failed to name sheet: %w", err)
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export: failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: failed to create style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(t.Header))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("export: failed to style header: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, fmt.Errorf("export: failed to create style: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, fmt.Errorf("export: failed to write row %d: %w", i+1, err)
		}
		for j, v := range row {
			if _, ok := v.(float64); !ok {
				continue
			}
			c, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellStyle(sheet, c, c, money); err != nil {
				return nil, fmt.Errorf("export: failed to style amount: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("export: failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
