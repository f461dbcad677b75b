package memory

import (
	"context"
	"errors"
	"testing"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/store"
)

var _ store.Repository = (*Store)(nil)

func TestListMedicinesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	medicines, err := s.ListMedicines(ctx)
	if err != nil {
		t.Fatalf("list medicines: %v", err)
	}
	medicines[0].Stock = 0

	again, _ := s.ListMedicines(ctx)
	if again[0].Stock != 150 {
		t.Fatalf("expected stored stock to stay 150, got %d", again[0].Stock)
	}
}

func TestCommitSaleRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()
	medicines, _ := s.ListMedicines(ctx)

	sale := domain.Sale{ID: "S-dup", Items: []domain.SaleItem{{MedicineID: "m1", Quantity: 1}}}
	if err := s.CommitSale(ctx, medicines, sale); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if err := s.CommitSale(ctx, medicines, sale); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	sales, _ := s.ListSales(ctx)
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(sales))
	}
	sales[0].Items[0].Quantity = 99
	again, _ := s.ListSales(ctx)
	if again[0].Items[0].Quantity != 1 {
		t.Fatalf("sale items must not alias store memory")
	}
}

func TestNewStartsEmptyWithDefaultSettings(t *testing.T) {
	ctx := context.Background()
	s := New()

	medicines, _ := s.ListMedicines(ctx)
	if len(medicines) != 0 {
		t.Fatalf("expected no medicines, got %d", len(medicines))
	}
	settings, _ := s.GetSettings(ctx)
	if settings.Currency != "USD" || settings.Locale != "en-US" {
		t.Fatalf("unexpected default settings %+v", settings)
	}
}
