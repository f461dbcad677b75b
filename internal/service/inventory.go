package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/metrics"
	"pharmapulse/backend/internal/report"
	"pharmapulse/backend/internal/xid"
)

const (
	defaultCategory  = "General"
	defaultThreshold = 10
)

type InventoryView struct {
	Items   []metrics.InventoryRow   `json:"items"`
	Summary metrics.InventorySummary `json:"summary"`
}

func (s *Service) ListInventory(ctx context.Context, q metrics.InventoryQuery) (InventoryView, error) {
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return InventoryView{}, err
	}
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return InventoryView{}, err
	}
	if q.WindowDays <= 0 {
		q.WindowDays = s.expiryWindow
	}

	asOf := s.now()
	return InventoryView{
		Items:   metrics.FilterInventory(medicines, vendors, q, asOf),
		Summary: metrics.SummarizeInventory(medicines, asOf, q.WindowDays),
	}, nil
}

func (s *Service) GetMedicine(ctx context.Context, id string) (domain.Medicine, error) {
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}
	i := findMedicine(medicines, id)
	if i < 0 {
		return domain.Medicine{}, apperror.NewNotFound("medicine", id)
	}
	return medicines[i], nil
}

func (s *Service) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	return s.repo.ListVendors(ctx)
}

func (s *Service) CreateMedicine(ctx context.Context, req domain.MedicineCreateRequest) (domain.Medicine, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Medicine{}, apperror.NewValidation("name is required")
	}
	if req.SellingPrice == nil || !req.SellingPrice.IsPositive() {
		return domain.Medicine{}, apperror.NewValidation("sellingPrice is required")
	}
	if req.Stock < 0 {
		return domain.Medicine{}, apperror.NewValidation("stock cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}

	created := domain.Medicine{
		ID:           xid.New("M"),
		Name:         name,
		Category:     defaultString(strings.TrimSpace(req.Category), defaultCategory),
		Stock:        req.Stock,
		Threshold:    defaultThreshold,
		CostPrice:    decimal.Zero,
		SellingPrice: *req.SellingPrice,
		ExpiryDate:   domain.DateOf(s.now().In(s.location)),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		VendorID:     strings.TrimSpace(req.VendorID),
	}
	if req.Threshold != nil {
		if *req.Threshold < 0 {
			return domain.Medicine{}, apperror.NewValidation("threshold cannot be negative")
		}
		created.Threshold = *req.Threshold
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return domain.Medicine{}, apperror.NewValidation("costPrice cannot be negative")
		}
		created.CostPrice = *req.CostPrice
	}
	if req.ExpiryDate != nil && !req.ExpiryDate.IsZero() {
		created.ExpiryDate = *req.ExpiryDate
	}
	if created.VendorID == "" && len(vendors) > 0 {
		created.VendorID = vendors[0].ID
	}
	if err := checkVendor(vendors, created.VendorID); err != nil {
		return domain.Medicine{}, err
	}

	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}
	medicines = append(medicines, created)
	if err := s.repo.SaveMedicines(ctx, medicines); err != nil {
		return domain.Medicine{}, err
	}

	s.logAudit(ctx, "New Item", fmt.Sprintf("Added new medicine: %s", created.Name), domain.AuditSuccess)
	return created, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, id string, req domain.MedicineUpdateRequest) (domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return domain.Medicine{}, err
	}
	i := findMedicine(medicines, id)
	if i < 0 {
		return domain.Medicine{}, apperror.NewNotFound("medicine", id)
	}

	updated := medicines[i]
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Medicine{}, apperror.NewValidation("name is required")
		}
		updated.Name = name
	}
	if req.Category != nil {
		updated.Category = defaultString(strings.TrimSpace(*req.Category), defaultCategory)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return domain.Medicine{}, apperror.NewValidation("stock cannot be negative")
		}
		updated.Stock = *req.Stock
	}
	if req.Threshold != nil {
		if *req.Threshold < 0 {
			return domain.Medicine{}, apperror.NewValidation("threshold cannot be negative")
		}
		updated.Threshold = *req.Threshold
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return domain.Medicine{}, apperror.NewValidation("costPrice cannot be negative")
		}
		updated.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if !req.SellingPrice.IsPositive() {
			return domain.Medicine{}, apperror.NewValidation("sellingPrice is required")
		}
		updated.SellingPrice = *req.SellingPrice
	}
	if req.ExpiryDate != nil && !req.ExpiryDate.IsZero() {
		updated.ExpiryDate = *req.ExpiryDate
	}
	if req.Manufacturer != nil {
		updated.Manufacturer = strings.TrimSpace(*req.Manufacturer)
	}
	if req.VendorID != nil {
		vendors, err := s.repo.ListVendors(ctx)
		if err != nil {
			return domain.Medicine{}, err
		}
		vendorID := strings.TrimSpace(*req.VendorID)
		if err := checkVendor(vendors, vendorID); err != nil {
			return domain.Medicine{}, err
		}
		updated.VendorID = vendorID
	}

	medicines[i] = updated
	if err := s.repo.SaveMedicines(ctx, medicines); err != nil {
		return domain.Medicine{}, err
	}

	s.logAudit(ctx, "Update Item", fmt.Sprintf("Updated details for %s", updated.Name), domain.AuditInfo)
	return updated, nil
}

func (s *Service) DeleteMedicine(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return err
	}
	i := findMedicine(medicines, id)
	if i < 0 {
		return apperror.NewNotFound("medicine", id)
	}
	name := medicines[i].Name
	medicines = slices.Delete(medicines, i, i+1)
	if err := s.repo.SaveMedicines(ctx, medicines); err != nil {
		return err
	}

	s.logAudit(ctx, "Delete Item", fmt.Sprintf("Removed medicine: %s", name), domain.AuditWarning)
	return nil
}

// RestockCSV exports every medicine at or below its threshold.
func (s *Service) RestockCSV(ctx context.Context) (Document, error) {
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return Document{}, err
	}
	vendors, err := s.repo.ListVendors(ctx)
	if err != nil {
		return Document{}, err
	}

	var buf bytes.Buffer
	if err := report.WriteRestockCSV(&buf, report.RestockRows(medicines, vendors)); err != nil {
		return Document{}, apperror.NewInternal(err)
	}

	s.logAudit(ctx, "Export", "Downloaded Restock CSV List", domain.AuditInfo)
	return Document{
		Filename:    fmt.Sprintf("restock_list_%s.csv", domain.DateOf(s.now().In(s.location))),
		ContentType: ContentTypeCSV,
		Body:        buf.Bytes(),
	}, nil
}

// checkVendor accepts an empty id (no vendor on file) or a known vendor.
func checkVendor(vendors []domain.Vendor, id string) error {
	if id == "" {
		return nil
	}
	for _, v := range vendors {
		if v.ID == id {
			return nil
		}
	}
	return apperror.NewValidation("unknown vendor").WithDetail("vendorId", id)
}
