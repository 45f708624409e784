package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// ExportPeriodReport renders a period report as an Excel workbook.
func ExportPeriodReport(report PeriodReport, settings *domain.Settings) ([]byte, error) {
	file := excelize.NewFile()
	const sheet = "Earnings"
	file.SetSheetName("Sheet1", sheet)

	currency := ""
	if settings != nil {
		currency = settings.Currency
	}

	rows := [][]interface{}{
		{"Period", string(report.Period)},
		{"From", report.From.Format("2006-01-02")},
		{"Completed appointments", report.Count},
		{"Revenue", report.Total},
	}
	if currency != "" {
		rows = append(rows, []interface{}{"Currency", currency})
	}
	if report.ChangePct != nil {
		rows = append(rows, []interface{}{"Change vs previous month (%)", *report.ChangePct})
	}

	row := 1
	for _, cells := range rows {
		if err := writeRow(file, sheet, row, cells); err != nil {
			return nil, err
		}
		row++
	}

	row++
	if err := writeRow(file, sheet, row, []interface{}{"Service", "Revenue", "Count"}); err != nil {
		return nil, err
	}
	headerRow := row
	row++
	for _, svc := range report.TopServices {
		if err := writeRow(file, sheet, row, []interface{}{svc.ServiceName, svc.Revenue, svc.Count}); err != nil {
			return nil, err
		}
		row++
	}

	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, headerRow)
		end, _ := excelize.CoordinatesToCellName(3, headerRow)
		_ = file.SetCellStyle(sheet, start, end, style)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(file *excelize.File, sheet string, row int, cells []interface{}) error {
	for i, value := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
