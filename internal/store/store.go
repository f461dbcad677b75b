package store

import (
	"context"
	"errors"

	"pharmapulse/backend/internal/domain"
)

// ErrConflict is returned when a sale id is already recorded.
var ErrConflict = errors.New("conflict")

// Collection keys shared by every backend.
const (
	KeyMedicines = "pharmacy_medicines"
	KeyVendors   = "pharmacy_vendors"
	KeySales     = "pharmacy_sales"
	KeySettings  = "pharmacy_settings"
	KeyAuditLogs = "pharmacy_audit_logs"
)

// MaxAuditLogs bounds the retained audit trail.
const MaxAuditLogs = 200

// Repository owns the pharmacy collections. Every call reads or writes a
// whole collection; callers hold their own lock across read-modify-write.
type Repository interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	SaveMedicines(ctx context.Context, medicines []domain.Medicine) error
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	SaveVendors(ctx context.Context, vendors []domain.Vendor) error
	ListSales(ctx context.Context) ([]domain.Sale, error)
	// CommitSale replaces the medicine collection and appends sale in one
	// atomic step.
	CommitSale(ctx context.Context, medicines []domain.Medicine, sale domain.Sale) error
	GetSettings(ctx context.Context) (domain.AppSettings, error)
	SaveSettings(ctx context.Context, settings domain.AppSettings) error
	AppendAuditLog(ctx context.Context, entry domain.AuditLog) error
	// ListAuditLogs returns the newest entries first.
	ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// PrependAuditLog puts entry at the head of logs and trims to MaxAuditLogs.
func PrependAuditLog(logs []domain.AuditLog, entry domain.AuditLog) []domain.AuditLog {
	next := make([]domain.AuditLog, 0, len(logs)+1)
	next = append(next, entry)
	next = append(next, logs...)
	if len(next) > MaxAuditLogs {
		next = next[:MaxAuditLogs]
	}
	return next
}

// LimitAuditLogs returns at most limit entries; limit <= 0 means MaxAuditLogs.
func LimitAuditLogs(logs []domain.AuditLog, limit int) []domain.AuditLog {
	if limit <= 0 || limit > MaxAuditLogs {
		limit = MaxAuditLogs
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}
	out := make([]domain.AuditLog, len(logs))
	copy(out, logs)
	return out
}
