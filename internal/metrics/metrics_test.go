package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/store"
)

func med(id string, stock, threshold int) domain.Medicine {
	return domain.Medicine{ID: id, Name: "Medicine " + id, Category: "General", Stock: stock, Threshold: threshold}
}

func sale(id string, at time.Time, items ...domain.SaleItem) domain.Sale {
	s := domain.Sale{ID: id, Date: at, Items: items}
	for _, item := range items {
		s.TotalAmount = s.TotalAmount.Add(item.LineTotal())
		s.TotalProfit = s.TotalProfit.Add(item.LineTotal().Sub(item.LineCost()))
	}
	return s
}

func line(id, name string, qty int, price, cost float64) domain.SaleItem {
	return domain.SaleItem{MedicineID: id, MedicineName: name, Quantity: qty, PriceAtSale: domain.Money(price), CostAtSale: domain.Money(cost)}
}

func TestClassifyStockPartitionsWithThresholdInLow(t *testing.T) {
	for threshold := 0; threshold <= 5; threshold++ {
		for stock := 0; stock <= 10; stock++ {
			got := ClassifyStock(med("x", stock, threshold))
			switch {
			case stock == 0:
				assert.Equal(t, OutOfStock, got, "stock=%d threshold=%d", stock, threshold)
			case stock <= threshold:
				assert.Equal(t, LowStock, got, "stock=%d threshold=%d", stock, threshold)
			default:
				assert.Equal(t, Healthy, got, "stock=%d threshold=%d", stock, threshold)
			}
		}
	}
}

func TestDaysToExpiryUsesCeiling(t *testing.T) {
	m := domain.Medicine{ExpiryDate: domain.NewDate(2025, time.January, 10)}

	assert.Equal(t, 10, DaysToExpiry(m, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysToExpiry(m, time.Date(2025, time.January, 9, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysToExpiry(m, time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysToExpiry(m, time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC)))
}

func TestExpiryBucketsAreExclusive(t *testing.T) {
	asOf := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	expired := domain.Medicine{ExpiryDate: domain.NewDate(2025, time.February, 1)}
	soon := domain.Medicine{ExpiryDate: domain.NewDate(2025, time.May, 30)}
	edge := domain.Medicine{ExpiryDate: domain.DateOf(asOf.AddDate(0, 0, 90))}
	later := domain.Medicine{ExpiryDate: domain.NewDate(2026, time.March, 1)}

	assert.Equal(t, Expired, ClassifyExpiry(expired, asOf, 90))
	assert.False(t, IsExpiringSoon(expired, asOf, 90))
	assert.True(t, IsExpired(expired, asOf))

	assert.Equal(t, ExpiringSoon, ClassifyExpiry(soon, asOf, 90))
	assert.True(t, IsExpiringSoon(edge, asOf, 0), "window boundary is inclusive and 0 means default")
	assert.Equal(t, Fresh, ClassifyExpiry(later, asOf, 90))
}

func TestAggregateByCategoryResolvesByIDThenName(t *testing.T) {
	medicines := []domain.Medicine{
		{ID: "m1", Name: "Paracetamol 500mg", Category: "Analgesic"},
		{ID: "m9", Name: "Amoxicillin 250mg", Category: "Antibiotic"},
	}
	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		sale("S1", at,
			line("m1", "Paracetamol 500mg", 2, 2.0, 0.5),
			line("m2", "Amoxicillin 250mg", 1, 8.5, 3.0),
		),
		sale("S2", at, line("gone", "Discontinued Syrup", 3, 1.0, 0.4)),
	}

	totals := AggregateByCategory(sales, NewCategoryResolver(medicines))
	require.Len(t, totals, 3)

	assert.Equal(t, "Analgesic", totals[0].Category)
	assert.Equal(t, "4.00", domain.Format2(totals[0].Revenue))
	assert.Equal(t, "3.00", domain.Format2(totals[0].Profit))

	assert.Equal(t, "Antibiotic", totals[1].Category, "stale id falls back to the recorded name")
	assert.Equal(t, "5.50", domain.Format2(totals[1].Profit))

	assert.Equal(t, domain.UncategorizedLabel, totals[2].Category)
	assert.Equal(t, "1.80", domain.Format2(totals[2].Profit))
}

func TestAggregateByDateKeepsFirstOccurrenceOrder(t *testing.T) {
	day1 := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	day0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		sale("S1", day1, line("m1", "A", 1, 10, 5)),
		sale("S2", day0, line("m1", "A", 1, 4, 1)),
		sale("S3", day1.Add(3*time.Hour), line("m1", "A", 2, 10, 5)),
	}

	got := AggregateByDate(sales, func(t time.Time) string { return t.Format("1/2/2006") })
	require.Len(t, got, 2)
	assert.Equal(t, "3/2/2025", got[0].Date)
	assert.Equal(t, "30.00", domain.Format2(got[0].Revenue))
	assert.Equal(t, "15.00", domain.Format2(got[0].Profit))
	assert.Equal(t, "3/1/2025", got[1].Date)

	assert.Equal(t, "2025-03-02", AggregateByDate(sales, nil)[0].Date)
}

func TestComputeBusinessInsightsHealthyInventory(t *testing.T) {
	sales := []domain.Sale{{
		ID:          "S1",
		TotalAmount: domain.Money(100),
		TotalProfit: domain.Money(25),
	}}
	medicines := []domain.Medicine{med("m1", 100, 10)}

	got := ComputeBusinessInsights(sales, medicines)
	require.Len(t, got, 2)
	assert.Equal(t, "Net Profit Margin is 25.0%. Aim for >20% for sustainability.", got[0])
	assert.Contains(t, got, HealthyInventoryInsight)
}

func TestComputeBusinessInsightsStockPriority(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		sale("S1", at, line("m1", "Paracetamol 500mg", 3, 2, 0.5), line("m2", "Ibuprofen 400mg", 3, 4, 1.2)),
	}

	got := ComputeBusinessInsights(sales, []domain.Medicine{med("a", 0, 5), med("b", 3, 5), med("c", 0, 1)})
	require.Len(t, got, 3)
	assert.Equal(t, "Top Performer: Paracetamol 500mg with 3 units sold.", got[1], "ties go to the first name seen")
	assert.Equal(t, "Critical: 2 items are completely out of stock.", got[2])

	got = ComputeBusinessInsights(nil, []domain.Medicine{med("b", 3, 5), med("d", 9, 5)})
	require.Len(t, got, 2)
	assert.Equal(t, "Net Profit Margin is 0.0%. Aim for >20% for sustainability.", got[0])
	assert.Equal(t, "Attention: 1 items are running low.", got[1])
}

func TestPriorityRefillSortsAndLimits(t *testing.T) {
	medicines := []domain.Medicine{
		med("a", 14, 10),
		med("b", 16, 10),
		med("c", 2, 10),
		med("d", 15, 10),
	}

	got := PriorityRefill(medicines, 0)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "d"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Len(t, PriorityRefill(medicines, 1), 1)
}

func TestFilterInventorySearchAndSort(t *testing.T) {
	asOf := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	medicines := store.DefaultMedicines()
	medicines = append(medicines, domain.Medicine{ID: "m6", Name: "aspirin gel", Category: "Topical", Stock: 5, Threshold: 2, VendorID: "v404", ExpiryDate: domain.NewDate(2027, 1, 1)})
	vendors := store.DefaultVendors()

	rows := FilterInventory(medicines, vendors, InventoryQuery{Search: "ANTI"}, asOf)
	require.Len(t, rows, 2)
	assert.Equal(t, "m2", rows[0].ID)
	assert.Equal(t, "m4", rows[1].ID)

	rows = FilterInventory(medicines, vendors, InventoryQuery{SortKey: "vendor"}, asOf)
	assert.Equal(t, "BioChem Supplies", rows[0].VendorName)
	assert.Equal(t, domain.UnknownVendorName, rows[len(rows)-1].VendorName)

	rows = FilterInventory(medicines, vendors, InventoryQuery{SortKey: "name"}, asOf)
	assert.Equal(t, "Amoxicillin 250mg", rows[0].Name)
	assert.Equal(t, "aspirin gel", rows[1].Name, "string sort ignores case")
	assert.Equal(t, "Paracetamol 500mg", rows[len(rows)-1].Name)

	rows = FilterInventory(medicines, vendors, InventoryQuery{Expiry: "expiring"}, asOf)
	require.Len(t, rows, 1)
	assert.Equal(t, "m2", rows[0].ID)
	assert.Equal(t, ExpiringSoon, rows[0].ExpiryStatus)

	rows = FilterInventory(medicines, vendors, InventoryQuery{Stock: "reorder", SortKey: "stock"}, asOf)
	require.Len(t, rows, 2)
	assert.Equal(t, "m4", rows[0].ID)
}

func TestSummarizeInventory(t *testing.T) {
	asOf := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	summary := SummarizeInventory(store.DefaultMedicines(), asOf, 90)

	assert.Equal(t, 5, summary.TotalItems)
	// 150*0.5 + 20*3 + 85*1.2 + 10*0.8 + 200*1.5
	assert.Equal(t, "545.00", domain.Format2(summary.TotalValue))
	assert.Equal(t, 2, summary.LowStockCount)
	assert.Equal(t, 1, summary.ExpiringCount)
	assert.Equal(t, 1, summary.ExpiredCount)
}

func TestFilterSalesByTextAndDay(t *testing.T) {
	sales := []domain.Sale{
		{ID: "S1", CustomerName: "Alice", Date: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), Items: []domain.SaleItem{{MedicineName: "Paracetamol 500mg"}}},
		{ID: "S2", CustomerName: "Bob", Date: time.Date(2025, 4, 3, 23, 0, 0, 0, time.UTC), Items: []domain.SaleItem{{MedicineName: "Cetirizine 10mg"}}},
		{ID: "S3", CustomerName: "", Date: time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC), Items: []domain.SaleItem{{MedicineName: "Paracetamol 500mg"}}},
	}

	got := FilterSales(sales, SalesQuery{Search: "paracetamol"})
	require.Len(t, got, 2)
	assert.Equal(t, "S3", got[0].ID, "newest first")

	from := domain.NewDate(2025, 4, 2)
	to := domain.NewDate(2025, 4, 3)
	got = FilterSales(sales, SalesQuery{From: &from, To: &to})
	require.Len(t, got, 2)
	assert.Equal(t, "S2", got[0].ID)

	got = FilterSales(sales, SalesQuery{From: &from, To: &to, Location: time.FixedZone("UTC+2", 7200)})
	require.Len(t, got, 1, "S2 moves to April 4th two hours east")
	assert.Equal(t, "S3", got[0].ID)
}
