package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/store"
)

// Store keeps every collection in process memory. Reads and writes copy
// so callers never share backing arrays with the store.
type Store struct {
	mu        sync.RWMutex
	medicines []domain.Medicine
	vendors   []domain.Vendor
	sales     []domain.Sale
	settings  domain.AppSettings
	auditLogs []domain.AuditLog
}

// New returns an empty store with default settings.
func New() *Store {
	return &Store{
		medicines: []domain.Medicine{},
		vendors:   []domain.Vendor{},
		sales:     []domain.Sale{},
		settings:  store.DefaultSettings(),
		auditLogs: []domain.AuditLog{},
	}
}

// NewSeeded returns a store holding the default vendors and medicines.
func NewSeeded() *Store {
	s := New()
	s.vendors = store.DefaultVendors()
	s.medicines = store.DefaultMedicines()
	return s
}

func (s *Store) ListMedicines(_ context.Context) ([]domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.medicines), nil
}

func (s *Store) SaveMedicines(_ context.Context, medicines []domain.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medicines = cloneOrEmpty(medicines)
	return nil
}

func (s *Store) ListVendors(_ context.Context) ([]domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.vendors), nil
}

func (s *Store) SaveVendors(_ context.Context, vendors []domain.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendors = cloneOrEmpty(vendors)
	return nil
}

func (s *Store) ListSales(_ context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Sale, len(s.sales))
	for i, sale := range s.sales {
		out[i] = cloneSale(sale)
	}
	return out, nil
}

func (s *Store) CommitSale(_ context.Context, medicines []domain.Medicine, sale domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sales {
		if existing.ID == sale.ID {
			return fmt.Errorf("sale %s: %w", sale.ID, store.ErrConflict)
		}
	}
	s.medicines = cloneOrEmpty(medicines)
	s.sales = append(s.sales, cloneSale(sale))
	return nil
}

func (s *Store) GetSettings(_ context.Context) (domain.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *Store) AppendAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = store.PrependAuditLog(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.LimitAuditLogs(s.auditLogs, limit), nil
}

func cloneSale(sale domain.Sale) domain.Sale {
	sale.Items = slices.Clone(sale.Items)
	return sale
}

func cloneOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return slices.Clone(items)
}
