package ordering

import (
	"context"
	"slices"
	"sync"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/domain"
)

// Board is the in-memory list of open suggestions. Placing a suggestion
// removes it from the list once the dispatcher accepted it.
type Board struct {
	mu          sync.Mutex
	suggestions []domain.OrderSuggestion
	dispatcher  Dispatcher
}

func NewBoard(dispatcher Dispatcher) *Board {
	if dispatcher == nil {
		dispatcher = LogDispatcher{}
	}
	return &Board{dispatcher: dispatcher}
}

// Refresh replaces the open list.
func (b *Board) Refresh(suggestions []domain.OrderSuggestion) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suggestions = slices.Clone(suggestions)
}

func (b *Board) List() []domain.OrderSuggestion {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := slices.Clone(b.suggestions)
	if out == nil {
		out = []domain.OrderSuggestion{}
	}
	return out
}

// Place dispatches the suggestion for medicineID and removes it.
func (b *Board) Place(ctx context.Context, medicineID string) (domain.OrderSuggestion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := slices.IndexFunc(b.suggestions, func(s domain.OrderSuggestion) bool {
		return s.MedicineID == medicineID
	})
	if idx < 0 {
		return domain.OrderSuggestion{}, apperror.NewNotFound("order suggestion", medicineID)
	}
	placed := b.suggestions[idx]
	if err := b.dispatcher.Dispatch(ctx, placed); err != nil {
		return domain.OrderSuggestion{}, apperror.NewExternalUnavailable("order dispatch", err)
	}
	b.suggestions = slices.Delete(b.suggestions, idx, idx+1)
	return placed, nil
}

// PlaceAll dispatches every open suggestion in order. Suggestions that fail
// to dispatch stay on the board; the first failure is returned.
func (b *Board) PlaceAll(ctx context.Context) ([]domain.OrderSuggestion, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	placed := make([]domain.OrderSuggestion, 0, len(b.suggestions))
	remaining := make([]domain.OrderSuggestion, 0)
	var firstErr error
	for _, s := range b.suggestions {
		if err := b.dispatcher.Dispatch(ctx, s); err != nil {
			remaining = append(remaining, s)
			if firstErr == nil {
				firstErr = apperror.NewExternalUnavailable("order dispatch", err)
			}
			continue
		}
		placed = append(placed, s)
	}
	b.suggestions = remaining
	return placed, firstErr
}
