package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/metrics"
)

var (
	salesHeader   = []string{"Sale ID", "Date", "Customer", "Items Count", "Total Amount", "Total Profit"}
	restockHeader = []string{"Medicine Name", "Category", "Current Stock", "Min Threshold", "Vendor", "Cost Price"}
)

// CustomerLabel is the name printed for a sale; blank names read "Walk-in".
func CustomerLabel(sale domain.Sale) string {
	if sale.CustomerName == "" {
		return "Walk-in"
	}
	return sale.CustomerName
}

// WriteSalesCSV writes one row per sale. dateFmt renders the short local
// date; nil means YYYY-MM-DD in UTC.
func WriteSalesCSV(w io.Writer, sales []domain.Sale, dateFmt func(time.Time) string) error {
	if dateFmt == nil {
		dateFmt = func(t time.Time) string { return t.UTC().Format(domain.DateLayout) }
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return err
	}
	for _, sale := range sales {
		record := []string{
			sale.ID,
			dateFmt(sale.Date),
			CustomerLabel(sale),
			strconv.Itoa(sale.ItemCount()),
			sale.TotalAmount.StringFixed(2),
			sale.TotalProfit.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type RestockRow struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Stock      int             `json:"stock"`
	Threshold  int             `json:"threshold"`
	VendorName string          `json:"vendorName"`
	CostPrice  decimal.Decimal `json:"costPrice"`
}

// RestockRows lists every medicine at or below its threshold, in stored order.
func RestockRows(medicines []domain.Medicine, vendors []domain.Vendor) []RestockRow {
	names := metrics.VendorNames(vendors)
	rows := make([]RestockRow, 0)
	for _, m := range medicines {
		if !metrics.NeedsReorder(m) {
			continue
		}
		vendor, ok := names[m.VendorID]
		if !ok {
			vendor = domain.UnknownVendorName
		}
		rows = append(rows, RestockRow{
			Name:       m.Name,
			Category:   m.Category,
			Stock:      m.Stock,
			Threshold:  m.Threshold,
			VendorName: vendor,
			CostPrice:  m.CostPrice,
		})
	}
	return rows
}

func WriteRestockCSV(w io.Writer, rows []RestockRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(restockHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.Category,
			strconv.Itoa(row.Stock),
			strconv.Itoa(row.Threshold),
			row.VendorName,
			row.CostPrice.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
