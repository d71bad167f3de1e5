package export

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// WriteMonthPDF renders a month's schedule as an employee-by-day grid and
// writes it to filePath. Cells show the shift abbreviation; day-off cells
// stay blank to keep the rota readable.
func WriteMonthPDF(
	filePath string,
	month, year int,
	employees []model.Employee,
	shifts []model.ShiftType,
	schedule []model.ScheduleEntry,
) error {
	days := model.DaysInMonth(month, year)

	abbrevs := make(map[string]string, len(shifts))
	for _, s := range shifts {
		abbrevs[s.ID] = s.Abbreviation
	}

	byEmployeeDay := make(map[string]map[int]string)
	for _, entry := range schedule {
		if entry.Month != month || entry.Year != year {
			continue
		}
		if byEmployeeDay[entry.EmployeeID] == nil {
			byEmployeeDay[entry.EmployeeID] = make(map[int]string)
		}
		byEmployeeDay[entry.EmployeeID][entry.Day] = entry.ShiftID
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	title := time.Month(month + 1).String()
	pdf.Cell(60, 10, fmt.Sprintf("Schedule %s %d", title, year))
	pdf.Ln(12)

	nameWidth := 40.0
	cellWidth := (277.0 - nameWidth) / float64(days)
	rowHeight := 6.0

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(nameWidth, rowHeight, "Employee", "1", 0, "L", false, 0, "")
	for day := 1; day <= days; day++ {
		pdf.CellFormat(cellWidth, rowHeight, fmt.Sprintf("%d", day), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(rowHeight)

	pdf.SetFont("Helvetica", "", 7)
	for _, emp := range employees {
		pdf.CellFormat(nameWidth, rowHeight, emp.Name, "1", 0, "L", false, 0, "")
		for day := 1; day <= days; day++ {
			cell := ""
			if shiftID, ok := byEmployeeDay[emp.ID][day]; ok && shiftID != model.DayOffShiftID {
				cell = abbrevs[shiftID]
				if cell == "" {
					cell = shiftID
				}
			}
			pdf.CellFormat(cellWidth, rowHeight, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return fmt.Errorf("failed to write schedule PDF: %w", err)
	}
	return nil
}
