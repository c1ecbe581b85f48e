package service

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

const (
	itemsSheet  = "Items"
	issuesSheet = "Quality"
)

// ExportService renders normalized rows as an XLSX workbook.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// BuildWorkbook returns XLSX bytes with one sheet of items in canonical
// column order and, when the quality check raised issues, a sheet listing them.
func (s *ExportService) BuildWorkbook(rows []dto.CanonicalRow, quality dto.QualityReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, fmt.Errorf("failed to name items sheet: %w", err)
	}

	for i, h := range dto.CanonicalHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(itemsSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(itemsSheet, 1, 1, style)
	}

	for r, row := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, r+2)
			_ = f.SetCellValue(itemsSheet, cell, v)
		}
		write(1, row.Description)
		writeFloat(write, 2, row.Price)
		writeInt(write, 3, row.Quantity)
		write(4, row.PackSize)
		writeInt(write, 5, row.Pack)
		writeInt(write, 6, row.Size)
		write(7, row.UOM)
		writeFloat(write, 8, row.TotalPrice)
		writeFloat(write, 9, row.PricePerPack)
		writeFloat(write, 10, row.PricePerPackSize)
		writeFloat(write, 11, row.PricePerPound)
		// Foodcodes are strings so leading zeros survive.
		write(12, row.Foodcode)
	}

	_ = f.SetColWidth(itemsSheet, "A", "A", 40)
	_ = f.SetColWidth(itemsSheet, "B", "K", 14)
	_ = f.SetColWidth(itemsSheet, "L", "L", 10)

	if len(quality.Issues) > 0 {
		if _, err := f.NewSheet(issuesSheet); err != nil {
			return nil, fmt.Errorf("failed to create quality sheet: %w", err)
		}
		_ = f.SetCellValue(issuesSheet, "A1", "Issue")
		_ = f.SetCellValue(issuesSheet, "B1", "Suggested fix")
		for i, issue := range quality.Issues {
			_ = f.SetCellValue(issuesSheet, fmt.Sprintf("A%d", i+2), issue)
			if i < len(quality.SuggestedFixes) {
				_ = f.SetCellValue(issuesSheet, fmt.Sprintf("B%d", i+2), quality.SuggestedFixes[i])
			}
		}
		_ = f.SetColWidth(issuesSheet, "A", "B", 60)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	log.Printf("Built XLSX export with %d rows", len(rows))
	return buf.Bytes(), nil
}

func writeFloat(write func(int, any), col int, v *float64) {
	if v != nil {
		write(col, *v)
	}
}

func writeInt(write func(int, any), col int, v *int) {
	if v != nil {
		write(col, *v)
	}
}
