package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expense_tracker/internal/expense"
	"expense_tracker/internal/report"
	"expense_tracker/internal/saving"

	"github.com/jung-kurt/gofpdf"
)

// generateReport renders the requested PDF and returns the file path.
func generateReport(payload *report.ReportPayload, deps Deps) (string, error) {
	if err := os.MkdirAll(deps.Report.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(deps.Report.Dir, fmt.Sprintf("report_%d.pdf", payload.ID))

	switch payload.ReportType {
	case report.TypeExpenses:
		filter := expense.Filter{}
		if payload.StartDate != nil {
			filter.StartDate = *payload.StartDate
		}
		if payload.EndDate != nil {
			filter.EndDate = *payload.EndDate
		}

		expenses, err := deps.Expenses.ListByUser(deps.DB, payload.UserID, filter)
		if err != nil {
			return "", err
		}
		return path, renderExpensesPDF(path, expenses)

	case report.TypeSavings:
		filter := saving.Filter{}
		if payload.StartDate != nil {
			filter.StartDate = *payload.StartDate
		}
		if payload.EndDate != nil {
			filter.EndDate = *payload.EndDate
		}

		savings, err := deps.Savings.ListByUser(deps.DB, payload.UserID, filter)
		if err != nil {
			return "", err
		}
		return path, renderSavingsPDF(path, savings)

	default:
		return "", fmt.Errorf("unknown report type: %s", payload.ReportType)
	}
}

func renderExpensesPDF(path string, expenses []*expense.Expense) error {
	pdf := newReportPDF("Expense Report")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 8, "Notes", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	var total float64
	for _, e := range expenses {
		pdf.CellFormat(30, 7, e.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", e.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, e.Category, "1", 0, "", false, 0, "")
		pdf.CellFormat(80, 7, e.Notes, "1", 1, "", false, 0, "")
		total += e.Amount
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

func renderSavingsPDF(path string, savings []*saving.Saving) error {
	pdf := newReportPDF("Savings Report")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(120, 8, "Reason", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	var total float64
	for _, s := range savings {
		pdf.CellFormat(30, 7, s.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", s.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(120, 7, s.Reason, "1", 1, "", false, 0, "")
		total += s.Amount
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

func newReportPDF(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 10, "Generated "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(12)
	return pdf
}
