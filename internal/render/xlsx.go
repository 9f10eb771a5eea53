package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"cookcart/internal/shopping"
)

// SheetName is the worksheet holding the list.
const SheetName = "Shopping list"

var xlsxHeader = []any{"Category", "Ingredient", "Quantity", "Recipes"}

// XLSX writes the list as a workbook with one row per ingredient.
func XLSX(w io.Writer, list shopping.ShoppingList) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rowNum := 2
	for _, cat := range list.Categories {
		for _, in := range cat.Ingredients {
			sources := make([]string, len(in.Sources))
			for i, s := range in.Sources {
				sources[i] = string(s)
			}
			row := []any{cat.Name, in.Name, Quantities(in.Quantities), strings.Join(sources, ", ")}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
				return fmt.Errorf("write row %d: %w", rowNum, err)
			}
			rowNum++
		}
	}

	if err := f.SetColWidth(SheetName, "A", "D", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
