// Package export writes query results as Excel workbooks, for download or
// for archiving in the object store.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/koustreak/chococrunch/internal/frame"
)

// ContentType is the MIME type of the workbooks produced here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// WriteXLSX writes f as a single-sheet workbook to w.
//
// The first row holds the column names in a bold header style; every result
// row follows in order. NULL cells are left blank.
//
// Example:
//
//	err := export.WriteXLSX(w, "product-1", view.Data)
func WriteXLSX(w io.Writer, sheet string, f *frame.Frame) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet = SheetName(sheet)
	if sheet != defaultSheet {
		if err := book.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#8B0000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, c := range f.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header %q: %w", c.Name, err)
		}
		if err := book.SetCellValue(sheet, cell, c.Name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := book.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range f.Rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to address row %d: %w", r+1, err)
			}
			if err := book.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}

	for col := range f.Columns {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to name column %d: %w", col+1, err)
		}
		if err := book.SetColWidth(sheet, name, name, 24); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func cellValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UTC()
	case int64, float64, string, bool:
		return x
	default:
		return frame.Text(x)
	}
}

// SheetName makes name acceptable to Excel: at most 31 characters and none
// of : \ / ? * [ ].
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return defaultSheet
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
