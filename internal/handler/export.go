package handler

import (
	"fmt"
	"shift-planner/internal/models"
	"shift-planner/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet   = "Schedule"
	exportLastCol = "G"
	exportHeadRow = 3
)

var exportHeaders = []string{"Date", "Member", "Role", "Shift", "Time", "Responsibility", "Absent"}

var exportBorder = []excelize.Border{
	{Type: "top", Color: "#D0D0D0", Style: 1},
	{Type: "bottom", Color: "#D0D0D0", Style: 1},
	{Type: "left", Color: "#D0D0D0", Style: 1},
	{Type: "right", Color: "#D0D0D0", Style: 1},
}

// ExportWeek GET /schedule/export?date=YYYY-MM-DD sends the Monday to Friday
// week containing date as an xlsx workbook.
func (h *Handler) ExportWeek(c *fiber.Ctx) error {
	ref := queryDate(c, "date", models.Today())
	week, err := h.scheduleService.GetWeekSchedule(ref)
	if err != nil {
		return err
	}

	f, err := buildWeekWorkbook(week)
	if err != nil {
		return err
	}
	defer f.Close()

	filename := fmt.Sprintf("schedule_%s.xlsx", week[0].Date)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Response().BodyWriter()); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	h.logger.WithField("file", filename).Info("Week schedule exported")
	return nil
}

func buildWeekWorkbook(week []service.DaySchedule) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeWeekSheet(f, week); err != nil {
		f.Close()
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return f, nil
}

func writeWeekSheet(f *excelize.File, week []service.DaySchedule) error {
	from, to := week[0].Date, week[len(week)-1].Date
	title := fmt.Sprintf("Shift schedule %s to %s", from, to)
	if err := f.SetCellValue(exportSheet, "A1", title); err != nil {
		return err
	}
	if err := f.MergeCell(exportSheet, "A1", exportLastCol+"1"); err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", exportLastCol+"1", titleStyle); err != nil {
		return err
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, exportHeadRow)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 2},
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	headRange := fmt.Sprintf("%s%d", exportLastCol, exportHeadRow)
	if err := f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", exportHeadRow), headRange, headerStyle); err != nil {
		return err
	}

	cellStyle, err := f.NewStyle(&excelize.Style{Border: exportBorder})
	if err != nil {
		return err
	}
	// One fill style per responsibility colour.
	fills := map[string]int{}
	fillStyle := func(color string) (int, error) {
		if id, ok := fills[color]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Font:   &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Border: exportBorder,
		})
		if err != nil {
			return 0, err
		}
		fills[color] = id
		return id, nil
	}

	row := exportHeadRow + 1
	for _, day := range week {
		scheduled := map[uint]bool{}
		for _, r := range day.Rows {
			scheduled[r.MemberID] = true
			absent := ""
			if r.IsOnHoliday {
				absent = r.AbsenceReason
			}
			values := []any{
				day.Date.String(), r.MemberName, r.RoleName, r.ShiftType.String(),
				r.StartTime + "-" + r.EndTime, r.ResponsibilityName, absent,
			}
			if err := writeExportRow(f, row, values, cellStyle); err != nil {
				return err
			}
			style, err := fillStyle(r.Color)
			if err != nil {
				return err
			}
			cell := fmt.Sprintf("F%d", row)
			if err := f.SetCellStyle(exportSheet, cell, cell, style); err != nil {
				return err
			}
			row++
		}
		for _, a := range day.Absent {
			if scheduled[a.MemberID] {
				continue
			}
			values := []any{day.Date.String(), a.Name, "", "", "", "", a.Reason}
			if err := writeExportRow(f, row, values, cellStyle); err != nil {
				return err
			}
			row++
		}
	}

	widths := []float64{12, 20, 16, 8, 13, 20, 20}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func writeExportRow(f *excelize.File, row int, values []any, style int) error {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return err
		}
	}
	return f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", exportLastCol, row), style)
}
