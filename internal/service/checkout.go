package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/logger"
	"pharmapulse/backend/internal/xid"
)

// Checkout validates the cart against live stock and records the sale.
// Either the whole cart is sold or nothing changes.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.Sale, error) {
	lines, err := normalizeCart(req.Items)
	if err != nil {
		return domain.Sale{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return domain.Sale{}, err
	}
	index := make(map[string]int, len(medicines))
	for i, m := range medicines {
		index[m.ID] = i
	}

	for _, line := range lines {
		i, ok := index[line.MedicineID]
		if !ok {
			return domain.Sale{}, apperror.NewNotFound("medicine", line.MedicineID)
		}
		m := medicines[i]
		if line.Quantity > m.Stock {
			return domain.Sale{}, apperror.NewInsufficientStock(m.ID, m.Name, line.Quantity, m.Stock)
		}
	}

	sale := domain.Sale{
		ID:           xid.New("S"),
		Date:         s.now().UTC(),
		CustomerName: defaultString(strings.TrimSpace(req.CustomerName), domain.DefaultCustomerName),
		Items:        make([]domain.SaleItem, 0, len(lines)),
		TotalAmount:  decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	cost := decimal.Zero
	for _, line := range lines {
		i := index[line.MedicineID]
		m := medicines[i]
		item := domain.SaleItem{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			Quantity:     line.Quantity,
			PriceAtSale:  m.SellingPrice,
			CostAtSale:   m.CostPrice,
		}
		sale.Items = append(sale.Items, item)
		sale.TotalAmount = sale.TotalAmount.Add(item.LineTotal())
		cost = cost.Add(item.LineCost())

		medicines[i].Stock = max(0, m.Stock-line.Quantity)
	}
	sale.TotalProfit = sale.TotalAmount.Sub(cost)

	if err := s.repo.CommitSale(ctx, medicines, sale); err != nil {
		return domain.Sale{}, err
	}

	logger.Info(ctx, "sale recorded", "sale_id", sale.ID, "items", len(sale.Items), "total", sale.TotalAmount.StringFixed(2))
	s.logAudit(ctx, "New Sale",
		fmt.Sprintf("Sale %s for %s: %d item(s), total %s", sale.ID, sale.CustomerName, len(sale.Items), sale.TotalAmount.StringFixed(2)),
		domain.AuditSuccess)
	return sale, nil
}

// normalizeCart merges repeated medicines, keeping first-seen order, and
// rejects empty carts and non-positive quantities.
func normalizeCart(items []domain.CartLine) ([]domain.CartLine, error) {
	if len(items) == 0 {
		return nil, apperror.NewValidation("cart is empty")
	}

	merged := make([]domain.CartLine, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.MedicineID)
		if id == "" {
			return nil, apperror.NewValidation("medicineId is required")
		}
		if item.Quantity < 1 {
			return nil, apperror.NewValidation("quantity must be at least 1").WithDetail("medicineId", id)
		}
		if at, ok := seen[id]; ok {
			if item.Quantity > math.MaxInt-merged[at].Quantity {
				return nil, apperror.NewValidation("quantity is too large").WithDetail("medicineId", id)
			}
			merged[at].Quantity += item.Quantity
			continue
		}
		seen[id] = len(merged)
		merged = append(merged, domain.CartLine{MedicineID: id, Quantity: item.Quantity})
	}
	return merged, nil
}

// AdjustStock applies a manual correction, flooring the result at zero and
// saturating at math.MaxInt.
func (s *Service) AdjustStock(ctx context.Context, medicineID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return 0, err
	}
	i := findMedicine(medicines, medicineID)
	if i < 0 {
		return 0, apperror.NewNotFound("medicine", medicineID)
	}
	if delta == 0 {
		return medicines[i].Stock, nil
	}

	medicines[i].Stock = adjustedStock(medicines[i].Stock, delta)
	if err := s.repo.SaveMedicines(ctx, medicines); err != nil {
		return 0, err
	}

	sign := ""
	if delta > 0 {
		sign = "+"
	}
	s.logAudit(ctx, "Stock Adjustment", fmt.Sprintf("Manual adjustment for %s: %s%d", medicines[i].Name, sign, delta), domain.AuditInfo)
	return medicines[i].Stock, nil
}

func findMedicine(medicines []domain.Medicine, id string) int {
	for i, m := range medicines {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Recommend suggests one add-on for the current cart.
func (s *Service) Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResponse, error) {
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return domain.RecommendationResponse{}, err
	}
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return domain.RecommendationResponse{}, err
	}
	return s.recommender.Recommend(req.Items, medicines, sales, s.now()), nil
}

func adjustedStock(stock, delta int) int {
	if delta > 0 && stock > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(0, stock+delta)
}
