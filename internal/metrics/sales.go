package metrics

import (
	"slices"
	"strings"
	"time"

	"pharmapulse/backend/internal/domain"
)

type SalesQuery struct {
	Search string
	From   *domain.Date
	To     *domain.Date
	// Location decides which calendar day a sale falls on; nil means UTC.
	Location *time.Location
}

// FilterSales matches the search text against the customer and item names,
// keeps sales whose day lies within [From, To] and returns newest first.
func FilterSales(sales []domain.Sale, q SalesQuery) []domain.Sale {
	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if search != "" && !saleMatches(sale, search) {
			continue
		}
		day := domain.DateOf(sale.Date.In(loc))
		if q.From != nil && day.Before(q.From.Time) {
			continue
		}
		if q.To != nil && day.After(q.To.Time) {
			continue
		}
		out = append(out, sale)
	}

	slices.SortStableFunc(out, func(a, b domain.Sale) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

func saleMatches(sale domain.Sale, search string) bool {
	if strings.Contains(strings.ToLower(sale.CustomerName), search) {
		return true
	}
	for _, item := range sale.Items {
		if strings.Contains(strings.ToLower(item.MedicineName), search) {
			return true
		}
	}
	return false
}
