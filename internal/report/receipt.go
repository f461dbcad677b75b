package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"pharmapulse/backend/internal/domain"
)

const (
	receiptWidth     = 40
	receiptFooter    = "Thank you for your business!"
	receiptTimestamp = "1/2/2006 3:04:05 PM"
)

// ReceiptOptions holds the shop-wide values printed on every receipt.
// Everything else comes from the sale, so a reprint matches the original.
type ReceiptOptions struct {
	BusinessName string
	Location     *time.Location
}

func (o ReceiptOptions) normalize() ReceiptOptions {
	if o.BusinessName == "" {
		o.BusinessName = "PharmaPulse"
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

type receiptLine struct {
	Label  string
	Amount string
}

type receiptView struct {
	Business  string
	Timestamp string
	Customer  string
	Lines     []receiptLine
	Total     string
	Footer    string
}

func buildReceipt(sale domain.Sale, opts ReceiptOptions) receiptView {
	opts = opts.normalize()
	view := receiptView{
		Business:  opts.BusinessName,
		Timestamp: sale.Date.In(opts.Location).Format(receiptTimestamp),
		Customer:  CustomerLabel(sale),
		Total:     "$" + sale.TotalAmount.StringFixed(2),
		Footer:    receiptFooter,
	}
	for _, item := range sale.Items {
		view.Lines = append(view.Lines, receiptLine{
			Label:  fmt.Sprintf("%s x%d", item.MedicineName, item.Quantity),
			Amount: "$" + item.LineTotal().StringFixed(2),
		})
	}
	return view
}

// ReceiptText renders a fixed-width plain text receipt.
func ReceiptText(sale domain.Sale, opts ReceiptOptions) string {
	view := buildReceipt(sale, opts)
	rule := strings.Repeat("-", receiptWidth)

	var b strings.Builder
	b.WriteString(center(view.Business) + "\n")
	b.WriteString("Date: " + view.Timestamp + "\n")
	b.WriteString("Customer: " + view.Customer + "\n")
	b.WriteString(rule + "\n")
	for _, line := range view.Lines {
		b.WriteString(columns(line.Label, line.Amount) + "\n")
	}
	b.WriteString(rule + "\n")
	b.WriteString(columns("TOTAL", view.Total) + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(center(view.Footer) + "\n")
	return b.String()
}

func center(s string) string {
	pad := (receiptWidth - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func columns(left, right string) string {
	gap := receiptWidth - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

var receiptHTMLTmpl = template.Must(template.New("receipt").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Business}} Receipt</title>
  <style>
    body { font-family: 'Courier New', monospace; padding: 20px; max-width: 400px; margin: 0 auto; }
    .header { text-align: center; margin-bottom: 20px; border-bottom: 1px dashed #000; padding-bottom: 10px; }
    .item { display: flex; justify-content: space-between; margin-bottom: 5px; font-size: 14px; }
    .total { border-top: 1px dashed #000; margin-top: 10px; padding-top: 10px; display: flex; justify-content: space-between; font-weight: bold; font-size: 16px; }
    .footer { margin-top: 20px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="header">
    <h2>{{.Business}}</h2>
    <p>Date: {{.Timestamp}}</p>
    <p>Customer: {{.Customer}}</p>
  </div>
  <div>
{{- range .Lines}}
    <div class="item"><span>{{.Label}}</span><span>{{.Amount}}</span></div>
{{- end}}
  </div>
  <div class="total"><span>TOTAL</span><span>{{.Total}}</span></div>
  <div class="footer"><p>{{.Footer}}</p></div>
</body>
</html>
`))

// ReceiptHTML renders the printable receipt page; names are escaped.
func ReceiptHTML(sale domain.Sale, opts ReceiptOptions) (string, error) {
	var buf bytes.Buffer
	if err := receiptHTMLTmpl.Execute(&buf, buildReceipt(sale, opts)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
