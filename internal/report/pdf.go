package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
)

const receiptPageWidth = 80.0

// ReceiptPDF renders the receipt on an 80mm roll-width page.
func ReceiptPDF(sale domain.Sale, opts ReceiptOptions) ([]byte, error) {
	view := buildReceipt(sale, opts)

	height := 70.0 + float64(len(view.Lines))*6
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: receiptPageWidth, Ht: height},
	})
	pdf.SetCreationDate(sale.Date)
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 5)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	inner := receiptPageWidth - 10

	pdf.SetFont("Courier", "B", 12)
	pdf.CellFormat(inner, 7, tr(view.Business), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 9)
	pdf.CellFormat(inner, 5, tr("Date: "+view.Timestamp), "", 1, "L", false, 0, "")
	pdf.CellFormat(inner, 5, tr("Customer: "+view.Customer), "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, line := range view.Lines {
		pdf.CellFormat(inner-20, 6, tr(line.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, line.Amount, "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Courier", "B", 10)
	pdf.CellFormat(inner-20, 7, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, view.Total, "T", 1, "R", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(inner, 5, view.Footer, "", 1, "C", false, 0, "")

	return output(pdf)
}

// SalesReportOptions controls the header of the sales history PDF.
type SalesReportOptions struct {
	BusinessName string
	Currency     string
	GeneratedAt  time.Time
	DateFormat   func(time.Time) string
}

// SalesPDF renders the filtered sales history as an A4 table with totals.
func SalesPDF(sales []domain.Sale, opts SalesReportOptions) ([]byte, error) {
	if opts.BusinessName == "" {
		opts.BusinessName = "PharmaPulse"
	}
	if opts.DateFormat == nil {
		opts.DateFormat = func(t time.Time) string { return t.UTC().Format(domain.DateLayout) }
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	if !opts.GeneratedAt.IsZero() {
		pdf.SetCreationDate(opts.GeneratedAt)
	}
	pdf.SetTitle(opts.BusinessName+" Sales Report", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(opts.BusinessName+" - Sales Report"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if !opts.GeneratedAt.IsZero() {
		pdf.CellFormat(0, 6, "Generated: "+opts.DateFormat(opts.GeneratedAt), "", 1, "C", false, 0, "")
	}
	if opts.Currency != "" {
		pdf.CellFormat(0, 6, "Amounts in "+opts.Currency, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{40, 28, 52, 18, 26, 26}
	headers := []string{"Sale ID", "Date", "Customer", "Items", "Total", "Profit"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	revenue, profit := decimal.Zero, decimal.Zero
	for _, sale := range sales {
		revenue = revenue.Add(sale.TotalAmount)
		profit = profit.Add(sale.TotalProfit)

		pdf.CellFormat(widths[0], 7, truncate(sale.ID, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, opts.DateFormat(sale.Date), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(truncate(CustomerLabel(sale), 28)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, strconv.Itoa(sale.ItemCount()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, sale.TotalAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, sale.TotalProfit.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Transactions: %d", len(sales)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Total Revenue: "+revenue.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Total Profit: "+profit.StringFixed(2), "", 1, "L", false, 0, "")

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "~"
}
