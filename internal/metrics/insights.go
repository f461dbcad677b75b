package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
)

const HealthyInventoryInsight = "Inventory levels are healthy across the board."

// ProfitMargin is totalProfit / totalRevenue x 100, zero without revenue.
func ProfitMargin(t Totals) decimal.Decimal {
	if t.Revenue.IsZero() {
		return decimal.Zero
	}
	return t.Profit.Div(t.Revenue).Mul(decimal.NewFromInt(100))
}

type TopSeller struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

// TopSellingItem sums quantities by recorded medicine name. Ties go to the
// name encountered first.
func TopSellingItem(sales []domain.Sale) (TopSeller, bool) {
	units := make(map[string]int)
	order := make([]string, 0)
	for _, sale := range sales {
		for _, item := range sale.Items {
			if _, seen := units[item.MedicineName]; !seen {
				order = append(order, item.MedicineName)
			}
			units[item.MedicineName] += item.Quantity
		}
	}

	var best TopSeller
	found := false
	for _, name := range order {
		if !found || units[name] > best.Units {
			best = TopSeller{Name: name, Units: units[name]}
			found = true
		}
	}
	if !found || best.Units <= 0 {
		return TopSeller{}, false
	}
	return best, true
}

// ComputeBusinessInsights returns the locally derived tips in fixed order:
// margin, top performer (when anything sold), then one stock message.
func ComputeBusinessInsights(sales []domain.Sale, medicines []domain.Medicine) []string {
	insights := make([]string, 0, 3)

	margin := ProfitMargin(SumSales(sales))
	insights = append(insights, fmt.Sprintf("Net Profit Margin is %s%%. Aim for >20%% for sustainability.", margin.StringFixed(1)))

	if top, ok := TopSellingItem(sales); ok {
		insights = append(insights, fmt.Sprintf("Top Performer: %s with %d units sold.", top.Name, top.Units))
	}

	stock := BreakdownStock(medicines)
	switch {
	case stock.OutOfStock > 0:
		insights = append(insights, fmt.Sprintf("Critical: %d items are completely out of stock.", stock.OutOfStock))
	case stock.Low > 0:
		insights = append(insights, fmt.Sprintf("Attention: %d items are running low.", stock.Low))
	default:
		insights = append(insights, HealthyInventoryInsight)
	}
	return insights
}
