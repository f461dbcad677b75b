package ordering

import (
	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/metrics"
)

const ReasonBelowThreshold = "Stock below threshold"

// ReorderMultiple is how many thresholds' worth of stock a reorder targets.
const ReorderMultiple = 3

// GenerateSuggestions proposes a reorder for every medicine at or below its
// threshold, in input order. Medicines whose vendor is unknown are skipped.
func GenerateSuggestions(medicines []domain.Medicine, vendors []domain.Vendor) []domain.OrderSuggestion {
	byID := make(map[string]domain.Vendor, len(vendors))
	for _, v := range vendors {
		byID[v.ID] = v
	}

	out := make([]domain.OrderSuggestion, 0)
	for _, m := range medicines {
		if !metrics.NeedsReorder(m) {
			continue
		}
		vendor, ok := byID[m.VendorID]
		if !ok {
			continue
		}
		qty := max(0, m.Threshold*ReorderMultiple-m.Stock)
		out = append(out, domain.OrderSuggestion{
			MedicineID:    m.ID,
			MedicineName:  m.Name,
			CurrentStock:  m.Stock,
			SuggestedQty:  qty,
			VendorID:      vendor.ID,
			VendorName:    vendor.Name,
			EstimatedCost: m.CostPrice.Mul(decimal.NewFromInt(int64(qty))),
			Reason:        ReasonBelowThreshold,
		})
	}
	return out
}
