package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pharmapulse/backend/internal/domain"
)

// Document is one keyed JSON collection.
type Document struct {
	Key  string
	Body []byte
}

// Documents is a key-value backend holding serialized collections.
type Documents interface {
	// Load returns ok=false when the key has never been written.
	Load(ctx context.Context, key string) (body []byte, ok bool, err error)
	// Store writes every document or none of them.
	Store(ctx context.Context, docs ...Document) error
}

// DocumentRepository implements Repository on top of a Documents backend.
type DocumentRepository struct {
	docs    Documents
	auditMu sync.Mutex
}

// NewDocumentRepository writes the default collections for every key the
// backend does not hold yet.
func NewDocumentRepository(ctx context.Context, docs Documents) (*DocumentRepository, error) {
	seeds := []struct {
		key   string
		value any
	}{
		{KeyVendors, DefaultVendors()},
		{KeyMedicines, DefaultMedicines()},
		{KeySales, []domain.Sale{}},
		{KeySettings, DefaultSettings()},
		{KeyAuditLogs, []domain.AuditLog{}},
	}

	missing := make([]Document, 0, len(seeds))
	for _, seed := range seeds {
		_, ok, err := docs.Load(ctx, seed.key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", seed.key, err)
		}
		if ok {
			continue
		}
		doc, err := encode(seed.key, seed.value)
		if err != nil {
			return nil, err
		}
		missing = append(missing, doc)
	}
	if len(missing) > 0 {
		if err := docs.Store(ctx, missing...); err != nil {
			return nil, fmt.Errorf("seed collections: %w", err)
		}
	}
	return &DocumentRepository{docs: docs}, nil
}

func (r *DocumentRepository) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	if err := load(ctx, r.docs, KeyMedicines, &medicines, DefaultMedicines); err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *DocumentRepository) SaveMedicines(ctx context.Context, medicines []domain.Medicine) error {
	doc, err := encode(KeyMedicines, nonNil(medicines))
	if err != nil {
		return err
	}
	return r.docs.Store(ctx, doc)
}

func (r *DocumentRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	if err := load(ctx, r.docs, KeyVendors, &vendors, DefaultVendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *DocumentRepository) SaveVendors(ctx context.Context, vendors []domain.Vendor) error {
	doc, err := encode(KeyVendors, nonNil(vendors))
	if err != nil {
		return err
	}
	return r.docs.Store(ctx, doc)
}

func (r *DocumentRepository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := load(ctx, r.docs, KeySales, &sales, func() []domain.Sale { return []domain.Sale{} }); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *DocumentRepository) CommitSale(ctx context.Context, medicines []domain.Medicine, sale domain.Sale) error {
	sales, err := r.ListSales(ctx)
	if err != nil {
		return err
	}
	for _, existing := range sales {
		if existing.ID == sale.ID {
			return fmt.Errorf("sale %s: %w", sale.ID, ErrConflict)
		}
	}
	sales = append(sales, sale)

	medicinesDoc, err := encode(KeyMedicines, nonNil(medicines))
	if err != nil {
		return err
	}
	salesDoc, err := encode(KeySales, sales)
	if err != nil {
		return err
	}
	return r.docs.Store(ctx, medicinesDoc, salesDoc)
}

func (r *DocumentRepository) GetSettings(ctx context.Context) (domain.AppSettings, error) {
	var settings domain.AppSettings
	if err := load(ctx, r.docs, KeySettings, &settings, DefaultSettings); err != nil {
		return domain.AppSettings{}, err
	}
	return settings, nil
}

func (r *DocumentRepository) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	doc, err := encode(KeySettings, settings)
	if err != nil {
		return err
	}
	return r.docs.Store(ctx, doc)
}

func (r *DocumentRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	r.auditMu.Lock()
	defer r.auditMu.Unlock()

	logs, err := r.auditLogs(ctx)
	if err != nil {
		return err
	}
	doc, err := encode(KeyAuditLogs, PrependAuditLog(logs, entry))
	if err != nil {
		return err
	}
	return r.docs.Store(ctx, doc)
}

func (r *DocumentRepository) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	logs, err := r.auditLogs(ctx)
	if err != nil {
		return nil, err
	}
	return LimitAuditLogs(logs, limit), nil
}

func (r *DocumentRepository) auditLogs(ctx context.Context) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	if err := load(ctx, r.docs, KeyAuditLogs, &logs, func() []domain.AuditLog { return []domain.AuditLog{} }); err != nil {
		return nil, err
	}
	return logs, nil
}

// load decodes key into dest, falling back to seed() when the key is absent.
func load[T any](ctx context.Context, docs Documents, key string, dest *T, seed func() T) error {
	body, ok, err := docs.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		*dest = seed()
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func encode(key string, value any) (Document, error) {
	body, err := json.Marshal(value)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s: %w", key, err)
	}
	return Document{Key: key, Body: body}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
