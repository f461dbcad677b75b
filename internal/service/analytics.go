package service

import (
	"context"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/metrics"
)

type FormattedTotals struct {
	Revenue        string `json:"revenue"`
	Profit         string `json:"profit"`
	InventoryValue string `json:"inventoryValue"`
}

type DashboardView struct {
	Totals         metrics.Totals           `json:"totals"`
	ProfitMargin   decimal.Decimal          `json:"profitMargin"`
	Stock          metrics.StockBreakdown   `json:"stock"`
	Inventory      metrics.InventorySummary `json:"inventory"`
	PriorityRefill []domain.Medicine        `json:"priorityRefill"`
	TopSeller      *metrics.TopSeller       `json:"topSeller,omitempty"`
	Insights       []string                 `json:"insights"`
	Currency       string                   `json:"currency"`
	Formatted      FormattedTotals          `json:"formatted"`
}

type AnalyticsView struct {
	Totals     metrics.Totals          `json:"totals"`
	Daily      []metrics.DailyTotal    `json:"daily"`
	Categories []metrics.CategoryTotal `json:"categories"`
}

func (s *Service) Dashboard(ctx context.Context) (DashboardView, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return DashboardView{}, err
	}
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return DashboardView{}, err
	}
	f, _, err := s.formatter(ctx)
	if err != nil {
		return DashboardView{}, err
	}

	totals := metrics.SumSales(sales)
	summary := metrics.SummarizeInventory(medicines, s.now(), s.expiryWindow)
	view := DashboardView{
		Totals:         totals,
		ProfitMargin:   metrics.ProfitMargin(totals).Round(1),
		Stock:          metrics.BreakdownStock(medicines),
		Inventory:      summary,
		PriorityRefill: metrics.PriorityRefill(medicines, 0),
		Insights:       metrics.ComputeBusinessInsights(sales, medicines),
		Currency:       f.Currency(),
		Formatted: FormattedTotals{
			Revenue:        f.Money(totals.Revenue),
			Profit:         f.Money(totals.Profit),
			InventoryValue: f.Money(summary.TotalValue),
		},
	}
	if top, ok := metrics.TopSellingItem(sales); ok {
		view.TopSeller = &top
	}
	return view, nil
}

// Analytics groups revenue by local calendar day and by category. Only
// categories that earned something are returned.
func (s *Service) Analytics(ctx context.Context) (AnalyticsView, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return AnalyticsView{}, err
	}
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return AnalyticsView{}, err
	}
	f, _, err := s.formatter(ctx)
	if err != nil {
		return AnalyticsView{}, err
	}

	resolver := metrics.NewCategoryResolver(medicines)
	return AnalyticsView{
		Totals:     metrics.SumSales(sales),
		Daily:      metrics.AggregateByDate(sales, f.Date),
		Categories: metrics.PositiveRevenue(metrics.AggregateByCategory(sales, resolver)),
	}, nil
}
