// Package report writes the registration listing for staff.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"github.com/essenciabjj/trial/internal/models"
)

const sheetName = "Agendamentos"

var header = []string{"Criado em", "Nome", "Telefone", "Idade", "Dia", "Horário", "Turma", "Data", "Status"}

func row(r models.Registration) []string {
	return []string{
		r.CreatedAt,
		r.FullName,
		r.Phone,
		strconv.Itoa(r.Age),
		r.ClassDay,
		r.ClassTime,
		r.ClassName,
		r.SpecificDate,
		r.Status,
	}
}

// WriteTable renders regs as a terminal table.
func WriteTable(w io.Writer, regs []models.Registration) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	for _, r := range regs {
		table.Append(row(r))
	}
	table.Render()
}

func WriteCSV(w io.Writer, regs []models.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range regs {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, regs []models.Registration) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, h := range header {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for _, cw := range []struct {
		from, to string
		width    float64
	}{
		{"A", last, 16},
		{"B", "B", 28},
		{"F", "F", 22},
	} {
		if err := f.SetColWidth(sheetName, cw.from, cw.to, cw.width); err != nil {
			return fmt.Errorf("column width %s: %w", cw.from, err)
		}
	}

	for i, r := range regs {
		line := i + 2
		for j, v := range row(r) {
			var value any = v
			if j == 3 {
				value = r.Age
			}
			if err := setCell(f, j+1, line, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, line int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, line)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
