/*
PURPOSE:
  Writes every dataset into one multi-sheet XLSX workbook.

REQUIREMENTS:
  User-specified:
  - One worksheet per dataset, header row frozen.

  Implementation-discovered:
  - Cell styling is out of scope; only typed values are written so that
    numeric columns stay numeric in spreadsheet tools.

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Consumes: internal/model.Row
  - Dependencies: github.com/xuri/excelize/v2

ERROR HANDLING:
  - Returns error on sheet creation, cell write or save failure.

IMPLEMENTATION RULES:
  - Sheets are written in the order given.

USAGE:
  err := output.WriteWorkbook("benchmark_results.xlsx", sheets)

SELF-HEALING INSTRUCTIONS:
  - Excel caps sheet names at 31 characters; keep eval set names short.

RELATED FILES:
  - internal/output/table.go

MAINTENANCE:
  - None.
*/

package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/daryltucker/forest-bench/internal/model"
)

const defaultSheet = "Sheet1"

// Sheet is one named dataset.
type Sheet struct {
	Name string
	Rows []model.Row
}

// WriteWorkbook writes sheets to an XLSX file at path.
func WriteWorkbook(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	keepDefault := false
	for i, sh := range sheets {
		if sh.Name == defaultSheet {
			keepDefault = true
		}
		idx, err := f.NewSheet(sh.Name)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, sh); err != nil {
			return fmt.Errorf("write sheet %s: %w", sh.Name, err)
		}
	}

	if !keepDefault && len(sheets) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sh Sheet) error {
	cols := Columns(sh.Rows)

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
		return err
	}

	for i, r := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(cols))
		for j, c := range cols {
			v, _ := r.Get(c)
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(sh.Name, cell, &values); err != nil {
			return err
		}
	}

	return f.SetPanes(sh.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func cellValue(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case string, float64, float32, int, int64, bool:
		return v
	default:
		return FormatValue(v)
	}
}
