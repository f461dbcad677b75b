package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/store"
)

func TestGenerateSuggestionsQuantityAndCost(t *testing.T) {
	medicines := []domain.Medicine{
		{ID: "m1", Name: "Ibuprofen 400mg", Stock: 10, Threshold: 50, CostPrice: domain.Money(1.2), VendorID: "v1"},
	}

	got := GenerateSuggestions(medicines, store.DefaultVendors())
	require.Len(t, got, 1)
	assert.Equal(t, 140, got[0].SuggestedQty)
	assert.Equal(t, "168.00", domain.Format2(got[0].EstimatedCost))
	assert.Equal(t, "MediCorp Global", got[0].VendorName)
	assert.Equal(t, ReasonBelowThreshold, got[0].Reason)
}

func TestGenerateSuggestionsSkipsUnknownVendor(t *testing.T) {
	medicines := []domain.Medicine{{ID: "m1", Stock: 0, Threshold: 30}}

	assert.Empty(t, GenerateSuggestions(medicines, nil))
}

func TestGenerateSuggestionsKeepsInputOrder(t *testing.T) {
	got := GenerateSuggestions(store.DefaultMedicines(), store.DefaultVendors())

	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].MedicineID)
	assert.Equal(t, 70, got[0].SuggestedQty)
	assert.Equal(t, "m4", got[1].MedicineID)
	assert.Equal(t, 65, got[1].SuggestedQty)
	assert.Equal(t, "52.00", domain.Format2(got[1].EstimatedCost))
}

func TestGenerateSuggestionsNeverNegative(t *testing.T) {
	medicines := []domain.Medicine{{ID: "m1", Stock: 0, Threshold: 0, VendorID: "v1", CostPrice: domain.Money(2)}}

	got := GenerateSuggestions(medicines, store.DefaultVendors())
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].SuggestedQty)
	assert.True(t, got[0].EstimatedCost.IsZero())
}

type recordingDispatcher struct {
	placed []string
	failOn map[string]bool
}

func (r *recordingDispatcher) Dispatch(_ context.Context, s domain.OrderSuggestion) error {
	if r.failOn[s.MedicineID] {
		return errors.New("broker unreachable")
	}
	r.placed = append(r.placed, s.MedicineID)
	return nil
}

func TestBoardPlaceRemovesSuggestion(t *testing.T) {
	ctx := context.Background()
	dispatcher := &recordingDispatcher{}
	board := NewBoard(dispatcher)
	board.Refresh(GenerateSuggestions(store.DefaultMedicines(), store.DefaultVendors()))

	placed, err := board.Place(ctx, "m4")
	require.NoError(t, err)
	assert.Equal(t, "m4", placed.MedicineID)
	assert.Equal(t, []string{"m4"}, dispatcher.placed)

	remaining := board.List()
	require.Len(t, remaining, 1)
	assert.Equal(t, "m2", remaining[0].MedicineID)

	_, err = board.Place(ctx, "m4")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestBoardPlaceAllKeepsFailures(t *testing.T) {
	ctx := context.Background()
	dispatcher := &recordingDispatcher{failOn: map[string]bool{"m2": true}}
	board := NewBoard(dispatcher)
	board.Refresh(GenerateSuggestions(store.DefaultMedicines(), store.DefaultVendors()))

	placed, err := board.PlaceAll(ctx)
	assert.True(t, apperror.IsCode(err, apperror.CodeExternalUnavailable))
	require.Len(t, placed, 1)
	assert.Equal(t, "m4", placed[0].MedicineID)

	remaining := board.List()
	require.Len(t, remaining, 1)
	assert.Equal(t, "m2", remaining[0].MedicineID)

	dispatcher.failOn = nil
	placed, err = board.PlaceAll(ctx)
	require.NoError(t, err)
	assert.Len(t, placed, 1)
	assert.Empty(t, board.List())
}

func TestLogDispatcherAccepts(t *testing.T) {
	board := NewBoard(nil)
	board.Refresh([]domain.OrderSuggestion{{MedicineID: "m2", SuggestedQty: 70}})

	_, err := board.Place(context.Background(), "m2")
	require.NoError(t, err)
	assert.Empty(t, board.List())
}

func TestEncodePlaced(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	body, err := encodePlaced(domain.OrderSuggestion{MedicineID: "m2", SuggestedQty: 70, EstimatedCost: domain.Money(210)}, at)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, placedEventType, decoded["type"])
	suggestion := decoded["suggestion"].(map[string]any)
	assert.Equal(t, "m2", suggestion["medicineId"])
	assert.Equal(t, float64(210), suggestion["estimatedCost"])
}
