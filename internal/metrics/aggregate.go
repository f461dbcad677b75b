package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
)

type Totals struct {
	Revenue decimal.Decimal `json:"totalRevenue"`
	Profit  decimal.Decimal `json:"totalProfit"`
	Count   int             `json:"salesCount"`
}

func SumSales(sales []domain.Sale) Totals {
	t := Totals{Revenue: decimal.Zero, Profit: decimal.Zero}
	for _, s := range sales {
		t.Revenue = t.Revenue.Add(s.TotalAmount)
		t.Profit = t.Profit.Add(s.TotalProfit)
		t.Count++
	}
	return t
}

// CategoryResolver maps a sold line back to a medicine category: first by
// medicine id, then by the recorded medicine name against the snapshot
// (first match wins), and finally to "Uncategorized".
type CategoryResolver struct {
	byID   map[string]string
	byName map[string]string
}

func NewCategoryResolver(medicines []domain.Medicine) CategoryResolver {
	r := CategoryResolver{
		byID:   make(map[string]string, len(medicines)),
		byName: make(map[string]string, len(medicines)),
	}
	for _, m := range medicines {
		r.byID[m.ID] = m.Category
		if _, seen := r.byName[m.Name]; !seen {
			r.byName[m.Name] = m.Category
		}
	}
	return r
}

func (r CategoryResolver) Resolve(item domain.SaleItem) string {
	if category, ok := r.byID[item.MedicineID]; ok {
		return category
	}
	if category, ok := r.byName[item.MedicineName]; ok {
		return category
	}
	return domain.UncategorizedLabel
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
}

// AggregateByCategory sums line revenue and profit per resolved category,
// in order of first appearance.
func AggregateByCategory(sales []domain.Sale, resolver CategoryResolver) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	for _, sale := range sales {
		for _, item := range sale.Items {
			category := resolver.Resolve(item)
			i, ok := index[category]
			if !ok {
				i = len(out)
				index[category] = i
				out = append(out, CategoryTotal{Category: category, Revenue: decimal.Zero, Profit: decimal.Zero})
			}
			revenue := item.LineTotal()
			out[i].Revenue = out[i].Revenue.Add(revenue)
			out[i].Profit = out[i].Profit.Add(revenue.Sub(item.LineCost()))
		}
	}
	return out
}

// PositiveRevenue drops categories that earned nothing.
func PositiveRevenue(totals []CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for _, t := range totals {
		if t.Revenue.IsPositive() {
			out = append(out, t)
		}
	}
	return out
}

type DailyTotal struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// AggregateByDate groups sales by dayKey(sale.Date) and keeps the order in
// which each day first appears in sales. A nil dayKey uses YYYY-MM-DD in UTC.
func AggregateByDate(sales []domain.Sale, dayKey func(time.Time) string) []DailyTotal {
	if dayKey == nil {
		dayKey = func(t time.Time) string { return t.UTC().Format(domain.DateLayout) }
	}
	index := make(map[string]int)
	out := make([]DailyTotal, 0)
	for _, sale := range sales {
		key := dayKey(sale.Date)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, DailyTotal{Date: key, Revenue: decimal.Zero, Profit: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(sale.TotalAmount)
		out[i].Profit = out[i].Profit.Add(sale.TotalProfit)
	}
	return out
}
