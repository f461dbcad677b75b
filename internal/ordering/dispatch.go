package ordering

import (
	"context"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/logger"
)

// Dispatcher hands a placed suggestion to whatever sits outside the shop:
// a queue, a vendor portal, or nothing at all.
type Dispatcher interface {
	Dispatch(ctx context.Context, suggestion domain.OrderSuggestion) error
}

// LogDispatcher records placed suggestions in the log and does nothing else.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, s domain.OrderSuggestion) error {
	logger.FromContext(ctx).WithComponent("ordering").Infow("order suggestion placed",
		"medicine_id", s.MedicineID,
		"vendor_id", s.VendorID,
		"qty", s.SuggestedQty,
		"estimated_cost", s.EstimatedCost.StringFixed(2),
	)
	return nil
}
