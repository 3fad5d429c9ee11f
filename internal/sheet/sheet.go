// Package sheet builds the spreadsheet that accompanies a merged document.
// Every cell of every exported table becomes one row.
package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Tablas"

// Record locates one table cell in the merged output. Row and Col are the
// one-based coordinates of the cell within its table; TableIndex counts
// tables in encounter order across the whole merge.
type Record struct {
	Source     string
	Title      string
	Level      int
	TableIndex int
	Row        int
	Col        int
	Value      string
}

// Build renders records to xlsx bytes, header row first, in record order.
func Build(records []Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	header := []interface{}{"Source", "Title", "Level", "TableIndex", "Row", "Col", "Value"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		row := []interface{}{r.Source, r.Title, r.Level, r.TableIndex, r.Row, r.Col, r.Value}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
