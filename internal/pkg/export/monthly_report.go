// Package export renders reports as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/madrasa/backoffice/internal/app/models"
	"github.com/madrasa/backoffice/internal/pkg/logger"
)

// Sheet names of the monthly report workbook.
const (
	SheetIncomeExpense = "Income vs Expense"
	SheetDonations     = "Donations"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName returns the download name of a monthly report.
func FileName(report *models.MonthlyReport) string {
	scope := "all"
	if report.Branch != nil {
		scope = report.Branch.String()
	}
	return fmt.Sprintf("monthly-report-%d-%s.xlsx", report.Year, scope)
}

// WriteMonthlyReport writes the two monthly series as an xlsx workbook to w:
// one sheet with income, expense and net per month, one with donations per
// category. Each sheet ends with a totals row.
func WriteMonthlyReport(w io.Writer, report *models.MonthlyReport) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing report workbook")
		}
	}()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetIncomeExpense); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeIncomeExpense(f, report.IncomeExpense, header); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetDonations); err != nil {
		return fmt.Errorf("failed to create donations sheet: %w", err)
	}
	if err := writeDonations(f, report.Donations, header); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, header int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}
	totalFirst, _ := excelize.CoordinatesToCellName(1, len(rows))
	totalLast, _ := excelize.CoordinatesToCellName(len(rows[0]), len(rows))
	if err := f.SetCellStyle(sheet, totalFirst, totalLast, header); err != nil {
		return fmt.Errorf("failed to style totals of %s: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", "A", 14)
}

func writeIncomeExpense(f *excelize.File, series []models.IncomeExpenseMonth, header int) error {
	rows := [][]interface{}{{"Month", "Income", "Expense", "Net"}}
	income, expense := decimal.Zero, decimal.Zero
	for _, m := range series {
		rows = append(rows, []interface{}{m.Month.String(), amount(m.Income), amount(m.Expense), amount(m.Income.Sub(m.Expense))})
		income = income.Add(m.Income)
		expense = expense.Add(m.Expense)
	}
	rows = append(rows, []interface{}{"Total", amount(income), amount(expense), amount(income.Sub(expense))})

	return writeRows(f, SheetIncomeExpense, rows, header)
}

func writeDonations(f *excelize.File, series []models.DonationMonth, header int) error {
	rows := [][]interface{}{{"Month", "Sadaqah", "Zakat", "Membership", "Others", "Total"}}
	var sadaqah, zakat, membership, others decimal.Decimal
	for _, m := range series {
		monthTotal := m.Sadaqah.Add(m.Zakat).Add(m.Membership).Add(m.Others)
		rows = append(rows, []interface{}{
			m.Month.String(), amount(m.Sadaqah), amount(m.Zakat), amount(m.Membership), amount(m.Others), amount(monthTotal),
		})
		sadaqah = sadaqah.Add(m.Sadaqah)
		zakat = zakat.Add(m.Zakat)
		membership = membership.Add(m.Membership)
		others = others.Add(m.Others)
	}
	grand := sadaqah.Add(zakat).Add(membership).Add(others)
	rows = append(rows, []interface{}{"Total", amount(sadaqah), amount(zakat), amount(membership), amount(others), amount(grand)})

	return writeRows(f, SheetDonations, rows, header)
}
