// Package export writes booking snapshots to Excel files so the
// marketplace operators can pull reports without touching the JSON
// data files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"farmrent/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

type ExcelWriter struct {
	dir    string
	logger *zerolog.Logger
}

func NewExcelWriter(dir string, logger *zerolog.Logger) *ExcelWriter {
	return &ExcelWriter{dir: dir, logger: logger}
}

// WriteBookings renders all bookings to a timestamped xlsx file and
// returns its path.
func (w *ExcelWriter) WriteBookings(bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Kind", "Item", "Farmer", "Start Date", "End Date", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.Kind)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), booking.ItemName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.FarmerUsername)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.StartDate)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.EndDate)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), booking.Status)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "F", 14)
	_ = f.SetColWidth(sheetName, "G", "G", 12)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(w.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	w.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}
