// Package report exports a month of expenses with its insights as XLSX or CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/insights"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the XLSX workbook.
const (
	ExpensesSheet = "Expenses"
	SummarySheet  = "Summary"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use xlsx or csv)", s)
	}
}

// MonthReport is everything a report shows for one month.
type MonthReport struct {
	Currency model.Currency
	Insights insights.Insights
	Expenses []model.Expense
	Budget   float64
	Year     int
	Month    time.Month
}

// NewMonthReport computes insights for the month and orders expenses newest first.
func NewMonthReport(year int, month time.Month, budget float64, currency model.Currency, expenses []model.Expense, now time.Time) MonthReport {
	return MonthReport{
		Year:     year,
		Month:    month,
		Budget:   budget,
		Currency: currency,
		Expenses: insights.SortByDateDescending(expenses),
		Insights: insights.Compute(budget, expenses, insights.MonthReference(year, month, now)),
	}
}

// Title is e.g. "March 2024".
func (r MonthReport) Title() string {
	return fmt.Sprintf("%s %d", r.Month, r.Year)
}

// FileName is e.g. "budget-report-2024-03.xlsx".
func (r MonthReport) FileName(format Format) string {
	return fmt.Sprintf("budget-report-%04d-%02d.%s", r.Year, int(r.Month), format)
}

// Write dispatches on format.
func Write(w io.Writer, r MonthReport, format Format) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

var expenseHeaders = []string{"Date", "Category", "Description", "Amount", "ID"}

func expenseRow(e model.Expense) []any {
	category, _ := model.CategoryByID(e.CategoryID())
	return []any{string(e.Date), category.Name, e.Description, roundCents(e.Amount.Float64()), e.ID}
}

// WriteXLSX writes an Expenses sheet and a Summary sheet.
func WriteXLSX(w io.Writer, r MonthReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ExpensesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"6366F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	moneyFormat := fmt.Sprintf(`"%s"#,##0.00`, r.Currency.Symbol)
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}

	if err := writeExpensesSheet(f, r, headerStyle, moneyStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(f, r, headerStyle, moneyStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeExpensesSheet(f *excelize.File, r MonthReport, headerStyle, moneyStyle int) error {
	if err := f.SetSheetRow(ExpensesSheet, "A1", &expenseHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := f.SetCellStyle(ExpensesSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, e := range r.Expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := expenseRow(e)
		if err := f.SetSheetRow(ExpensesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write expense %s: %w", e.ID, err)
		}
	}

	if n := len(r.Expenses); n > 0 {
		if err := f.SetCellStyle(ExpensesSheet, "D2", fmt.Sprintf("D%d", n+1), moneyStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	widths := map[string]float64{"A": 12, "B": 20, "C": 40, "D": 12, "E": 32}
	for col, width := range widths {
		if err := f.SetColWidth(ExpensesSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r MonthReport, headerStyle, moneyStyle int) error {
	ins := r.Insights
	rows := [][]any{
		{"Month", r.Title()},
		{"Currency", r.Currency.Code},
		{"Budget", roundCents(r.Budget)},
		{"Total spent", roundCents(ins.Total)},
		{"Remaining", roundCents(ins.Remaining)},
		{"Percentage used", ins.Percentage},
		{"Status", ins.Status.Label},
		{"Daily average", roundCents(ins.DailyAverage)},
		{"Projected", roundCents(ins.Projected)},
		{"Budget per day", roundCents(ins.BudgetPerDay)},
		{"Days remaining", ins.DaysRemaining},
		{},
		{"Category", "Total", "Count"},
	}
	categoryHeader := len(rows)
	for _, c := range ins.CategoryTotals {
		rows = append(rows, []any{c.Name, roundCents(c.Total), c.Count})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	headerRange := fmt.Sprintf("C%d", categoryHeader)
	if err := f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", categoryHeader), headerRange, headerStyle); err != nil {
		return fmt.Errorf("failed to style category header: %w", err)
	}
	for _, row := range []int{3, 4, 5, 8, 9, 10} {
		cell := fmt.Sprintf("B%d", row)
		if err := f.SetCellStyle(SummarySheet, cell, cell, moneyStyle); err != nil {
			return fmt.Errorf("failed to style %s: %w", cell, err)
		}
	}
	if len(ins.CategoryTotals) > 0 {
		from := fmt.Sprintf("B%d", categoryHeader+1)
		to := fmt.Sprintf("B%d", categoryHeader+len(ins.CategoryTotals))
		if err := f.SetCellStyle(SummarySheet, from, to, moneyStyle); err != nil {
			return fmt.Errorf("failed to style category totals: %w", err)
		}
	}

	return f.SetColWidth(SummarySheet, "A", "A", 20)
}

// WriteCSV writes the expense table as CSV with amounts to two decimals.
func WriteCSV(w io.Writer, r MonthReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expenseHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range r.Expenses {
		category, _ := model.CategoryByID(e.CategoryID())
		record := []string{
			string(e.Date),
			category.Name,
			e.Description,
			decimal.NewFromFloat(e.Amount.Float64()).StringFixed(2),
			e.ID,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
