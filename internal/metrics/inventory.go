package metrics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
)

type InventoryQuery struct {
	Search string
	// Expiry is "", "expiring" or "expired".
	Expiry string
	// Stock is "", "reorder", "out", "low" or "healthy".
	Stock      string
	SortKey    string
	Descending bool
	WindowDays int
}

type InventoryRow struct {
	domain.Medicine
	VendorName   string       `json:"vendorName"`
	StockStatus  StockStatus  `json:"stockStatus"`
	ExpiryStatus ExpiryStatus `json:"expiryStatus"`
	DaysToExpiry int          `json:"daysToExpiry"`
}

type InventorySummary struct {
	TotalItems    int             `json:"totalItems"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockCount int             `json:"lowStockCount"`
	ExpiringCount int             `json:"expiringCount"`
	ExpiredCount  int             `json:"expiredCount"`
}

// VendorNames indexes vendor names by id.
func VendorNames(vendors []domain.Vendor) map[string]string {
	names := make(map[string]string, len(vendors))
	for _, v := range vendors {
		names[v.ID] = v.Name
	}
	return names
}

func vendorName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return domain.UnknownVendorName
}

// FilterInventory applies search, expiry and stock filters and then a
// stable sort. Unknown sort keys keep the stored order.
func FilterInventory(medicines []domain.Medicine, vendors []domain.Vendor, q InventoryQuery, asOf time.Time) []InventoryRow {
	names := VendorNames(vendors)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	rows := make([]InventoryRow, 0, len(medicines))
	for _, m := range medicines {
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Name), search) &&
			!strings.Contains(strings.ToLower(m.Category), search) {
			continue
		}
		row := InventoryRow{
			Medicine:     m,
			VendorName:   vendorName(names, m.VendorID),
			StockStatus:  ClassifyStock(m),
			ExpiryStatus: ClassifyExpiry(m, asOf, q.WindowDays),
			DaysToExpiry: DaysToExpiry(m, asOf),
		}
		if !matchesExpiry(row, q.Expiry) || !matchesStock(row, q.Stock) {
			continue
		}
		rows = append(rows, row)
	}

	if compare := rowComparator(q.SortKey); compare != nil {
		slices.SortStableFunc(rows, func(a, b InventoryRow) int {
			if q.Descending {
				return compare(b, a)
			}
			return compare(a, b)
		})
	}
	return rows
}

func matchesExpiry(row InventoryRow, filter string) bool {
	switch filter {
	case "expiring":
		return row.ExpiryStatus == ExpiringSoon
	case "expired":
		return row.ExpiryStatus == Expired
	default:
		return true
	}
}

func matchesStock(row InventoryRow, filter string) bool {
	switch filter {
	case "reorder":
		return NeedsReorder(row.Medicine)
	case "out":
		return row.StockStatus == OutOfStock
	case "low":
		return row.StockStatus == LowStock
	case "healthy":
		return row.StockStatus == Healthy
	default:
		return true
	}
}

func foldCompare(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

func rowComparator(key string) func(a, b InventoryRow) int {
	switch key {
	case "name":
		return func(a, b InventoryRow) int { return foldCompare(a.Name, b.Name) }
	case "category":
		return func(a, b InventoryRow) int { return foldCompare(a.Category, b.Category) }
	case "manufacturer":
		return func(a, b InventoryRow) int { return foldCompare(a.Manufacturer, b.Manufacturer) }
	case "vendor":
		return func(a, b InventoryRow) int { return foldCompare(a.VendorName, b.VendorName) }
	case "stock":
		return func(a, b InventoryRow) int { return cmp.Compare(a.Stock, b.Stock) }
	case "threshold":
		return func(a, b InventoryRow) int { return cmp.Compare(a.Threshold, b.Threshold) }
	case "costPrice":
		return func(a, b InventoryRow) int { return a.CostPrice.Cmp(b.CostPrice) }
	case "sellingPrice":
		return func(a, b InventoryRow) int { return a.SellingPrice.Cmp(b.SellingPrice) }
	case "expiryDate":
		return func(a, b InventoryRow) int { return a.ExpiryDate.Compare(b.ExpiryDate.Time) }
	default:
		return nil
	}
}

// SummarizeInventory totals stock value at cost and counts the items that
// need attention.
func SummarizeInventory(medicines []domain.Medicine, asOf time.Time, windowDays int) InventorySummary {
	s := InventorySummary{TotalItems: len(medicines), TotalValue: decimal.Zero}
	for _, m := range medicines {
		s.TotalValue = s.TotalValue.Add(m.CostPrice.Mul(decimal.NewFromInt(int64(m.Stock))))
		if NeedsReorder(m) {
			s.LowStockCount++
		}
		switch ClassifyExpiry(m, asOf, windowDays) {
		case ExpiringSoon:
			s.ExpiringCount++
		case Expired:
			s.ExpiredCount++
		}
	}
	return s
}
