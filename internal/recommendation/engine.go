// Package recommendation suggests one add-on medicine for the cart at the
// counter, scored from past baskets, margin, stock depth and expiry.
package recommendation

import (
	"math"
	"sort"
	"time"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/metrics"
)

const (
	ReasonBoughtTogether = "often_bought_together"
	ReasonHighMargin     = "high_margin_boost"
	ReasonHealthyStock   = "healthy_stock"
	ReasonShortDated     = "short_dated_stock"
)

type Engine struct {
	minConfidence float64
	expiryWindow  int
}

func NewEngine(expiryWindowDays int) *Engine {
	if expiryWindowDays <= 0 {
		expiryWindowDays = metrics.DefaultExpiryWindowDays
	}
	return &Engine{minConfidence: 0.35, expiryWindow: expiryWindowDays}
}

// Recommend picks the best candidate that is not already in the cart, is in
// stock and has not expired. Nothing is shown below the confidence floor.
func (e *Engine) Recommend(cart []domain.CartLine, medicines []domain.Medicine, sales []domain.Sale, asOf time.Time) domain.RecommendationResponse {
	inCart := make(map[string]struct{}, len(cart))
	for _, line := range cart {
		if line.MedicineID == "" || line.Quantity < 1 {
			continue
		}
		inCart[line.MedicineID] = struct{}{}
	}
	if len(inCart) == 0 {
		return domain.RecommendationResponse{}
	}

	pairSignal := basketAffinity(inCart, sales)

	var (
		best           *domain.Medicine
		bestConfidence float64
		bestReason     string
	)
	for i := range medicines {
		m := medicines[i]
		if _, exists := inCart[m.ID]; exists {
			continue
		}
		if m.Stock <= 0 || metrics.IsExpired(m, asOf) {
			continue
		}

		pairAffinity := clamp(pairSignal[m.ID], 0, 1)
		marginScore := clamp(marginRate(m)/0.40, 0, 1)
		stockScore := clamp(float64(m.Stock)/90.0, 0, 1)
		expiryScore := 0.55
		if metrics.IsExpiringSoon(m, asOf, e.expiryWindow) {
			expiryScore = 0.90
		}

		confidence := clamp(
			0.40*pairAffinity+
				0.25*marginScore+
				0.20*stockScore+
				0.10*expiryScore, 0, 1)
		if confidence < e.minConfidence || confidence <= bestConfidence {
			continue
		}
		best = &medicines[i]
		bestConfidence = confidence
		bestReason = deriveReason(pairAffinity, marginScore, stockScore, expiryScore)
	}

	if best == nil {
		return domain.RecommendationResponse{}
	}
	return domain.RecommendationResponse{
		Show: true,
		Recommendation: &domain.Recommendation{
			MedicineID:   best.ID,
			Name:         best.Name,
			SellingPrice: best.SellingPrice,
			ReasonCode:   bestReason,
			Confidence:   round2(bestConfidence),
		},
	}
}

// basketAffinity is, per medicine, the share of past sales containing a
// cart medicine that also contained it.
func basketAffinity(inCart map[string]struct{}, sales []domain.Sale) map[string]float64 {
	counts := make(map[string]int)
	baskets := 0
	for _, sale := range sales {
		hit := false
		for _, item := range sale.Items {
			if _, ok := inCart[item.MedicineID]; ok {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		baskets++
		seen := make(map[string]struct{}, len(sale.Items))
		for _, item := range sale.Items {
			if _, ok := seen[item.MedicineID]; ok {
				continue
			}
			seen[item.MedicineID] = struct{}{}
			counts[item.MedicineID]++
		}
	}

	signal := make(map[string]float64, len(counts))
	if baskets == 0 {
		return signal
	}
	for id, n := range counts {
		signal[id] = float64(n) / float64(baskets)
	}
	return signal
}

func marginRate(m domain.Medicine) float64 {
	if !m.SellingPrice.IsPositive() {
		return 0
	}
	return m.SellingPrice.Sub(m.CostPrice).Div(m.SellingPrice).InexactFloat64()
}

func deriveReason(pairAffinity float64, marginScore float64, stockScore float64, expiryScore float64) string {
	type reasonWeight struct {
		code  string
		value float64
	}

	reasons := []reasonWeight{
		{code: ReasonBoughtTogether, value: pairAffinity},
		{code: ReasonHighMargin, value: marginScore},
		{code: ReasonHealthyStock, value: stockScore},
		{code: ReasonShortDated, value: expiryScore},
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].value > reasons[j].value
	})
	return reasons[0].code
}

func clamp(val float64, minVal float64, maxVal float64) float64 {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func round2(val float64) float64 {
	return math.Round(val*100) / 100
}
