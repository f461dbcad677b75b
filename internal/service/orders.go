package service

import (
	"context"
	"fmt"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/ordering"
)

// OrderSuggestions regenerates the open suggestions from the current
// inventory and returns them.
func (s *Service) OrderSuggestions(ctx context.Context) ([]domain.OrderSuggestion, error) {
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	s.board.Refresh(ordering.GenerateSuggestions(medicines, vendors))
	return s.board.List(), nil
}

func (s *Service) PlaceOrder(ctx context.Context, medicineID string) (domain.OrderSuggestion, error) {
	placed, err := s.board.Place(ctx, medicineID)
	if err != nil {
		return domain.OrderSuggestion{}, err
	}
	s.logAudit(ctx, "Order Placed", orderDetail(placed), domain.AuditInfo)
	return placed, nil
}

// PlaceAllOrders places every open suggestion. The placed ones are returned
// even when some dispatches failed.
func (s *Service) PlaceAllOrders(ctx context.Context) ([]domain.OrderSuggestion, error) {
	placed, err := s.board.PlaceAll(ctx)
	for _, p := range placed {
		s.logAudit(ctx, "Order Placed", orderDetail(p), domain.AuditInfo)
	}
	return placed, err
}

func orderDetail(o domain.OrderSuggestion) string {
	return fmt.Sprintf("Ordered %d x %s from %s (est. %s)", o.SuggestedQty, o.MedicineName, o.VendorName, o.EstimatedCost.StringFixed(2))
}
