package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
)

// SheetName is the worksheet holding the grid.
const SheetName = "Attendance"

// WriteXLSX writes the grid as a workbook: a header row of date labels, one
// row per member with coloured status cells, then the daily leave and
// working counts.
func WriteXLSX(w io.Writer, title string, g schedule.Grid) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "eonjeswim"}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}

	styles, err := statusStyles(f)
	if err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	headerRow := make([]any, 0, len(g.Labels)+1)
	headerRow = append(headerRow, "Member")
	for _, l := range g.Labels {
		headerRow = append(headerRow, l)
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headerRow), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range g.Rows {
		r := i + 2
		if err := setCell(f, 1, r, row.Name); err != nil {
			return err
		}
		for j, day := range row.Days {
			cell, _ := excelize.CoordinatesToCellName(j+2, r)
			if err := f.SetCellValue(SheetName, cell, schedule.StyleFor(day.WorkType).Label); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
			if err := f.SetCellStyle(SheetName, cell, cell, styles[day.WorkType]); err != nil {
				return fmt.Errorf("style %s: %w", cell, err)
			}
		}
	}

	leaveRow := len(g.Rows) + 2
	workRow := leaveRow + 1
	if err := setCell(f, 1, leaveRow, "On leave"); err != nil {
		return err
	}
	if err := setCell(f, 1, workRow, "Working"); err != nil {
		return err
	}
	for j, s := range g.Stats {
		if err := setCell(f, j+2, leaveRow, s.LeaveCount); err != nil {
			return err
		}
		if err := setCell(f, j+2, workRow, s.WorkingCount); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 18); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("write %s: %w", cell, err)
	}
	return nil
}

func statusStyles(f *excelize.File) (map[model.WorkType]int, error) {
	out := make(map[model.WorkType]int, len(model.WorkTypes))
	for _, w := range model.WorkTypes {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{schedule.StyleFor(w).Color}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, fmt.Errorf("style for %s: %w", w, err)
		}
		out[w] = id
	}
	return out, nil
}
