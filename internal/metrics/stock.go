// Package metrics holds the pure derived-value computations used by the
// dashboard, inventory, analytics and ordering views. Every function works
// on the snapshot it is given and never mutates it.
package metrics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
)

type StockStatus string

const (
	OutOfStock StockStatus = "out_of_stock"
	LowStock   StockStatus = "low"
	Healthy    StockStatus = "healthy"
)

// ClassifyStock partitions stock levels; the threshold itself counts as low.
func ClassifyStock(m domain.Medicine) StockStatus {
	switch {
	case m.Stock <= 0:
		return OutOfStock
	case m.Stock <= m.Threshold:
		return LowStock
	default:
		return Healthy
	}
}

// NeedsReorder reports stock at or below threshold, out of stock included.
func NeedsReorder(m domain.Medicine) bool {
	return m.Stock <= m.Threshold
}

type StockBreakdown struct {
	// AtOrBelowThreshold counts out-of-stock items too.
	AtOrBelowThreshold int `json:"lowStockCount"`
	OutOfStock         int `json:"outOfStockCount"`
	Low                int `json:"lowOnlyCount"`
	Healthy            int `json:"healthyCount"`
	TotalUnits         int `json:"totalUnits"`
}

func BreakdownStock(medicines []domain.Medicine) StockBreakdown {
	var b StockBreakdown
	for _, m := range medicines {
		b.TotalUnits += m.Stock
		if NeedsReorder(m) {
			b.AtOrBelowThreshold++
		}
		switch ClassifyStock(m) {
		case OutOfStock:
			b.OutOfStock++
		case LowStock:
			b.Low++
		case Healthy:
			b.Healthy++
		}
	}
	return b
}

// PriorityRefill returns items at or below 1.5x their threshold, lowest
// stock first, at most limit of them (limit <= 0 means 10).
func PriorityRefill(medicines []domain.Medicine, limit int) []domain.Medicine {
	if limit <= 0 {
		limit = 10
	}
	factor := decimal.NewFromFloat(1.5)

	out := make([]domain.Medicine, 0, len(medicines))
	for _, m := range medicines {
		ceiling := decimal.NewFromInt(int64(m.Threshold)).Mul(factor)
		if decimal.NewFromInt(int64(m.Stock)).LessThanOrEqual(ceiling) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Medicine) int {
		return cmp.Compare(a.Stock, b.Stock)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
