package service

import (
	"context"
	"fmt"
	"strings"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/locale"
	"pharmapulse/backend/internal/store"
)

func (s *Service) GetSettings(ctx context.Context) (domain.AppSettings, error) {
	return s.repo.GetSettings(ctx)
}

func (s *Service) SaveSettings(ctx context.Context, settings domain.AppSettings) (domain.AppSettings, error) {
	settings = domain.AppSettings{
		Currency:    strings.ToUpper(strings.TrimSpace(settings.Currency)),
		Locale:      strings.TrimSpace(settings.Locale),
		CountryName: strings.TrimSpace(settings.CountryName),
	}
	if err := locale.Validate(settings); err != nil {
		return domain.AppSettings{}, apperror.NewValidation(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return domain.AppSettings{}, err
	}
	s.logAudit(ctx, "Settings Updated", fmt.Sprintf("Changed region to %s", settings.CountryName), domain.AuditWarning)
	return settings, nil
}

func (s *Service) Regions() []locale.Region {
	return locale.Regions()
}

// ListAuditLogs returns the newest entries first; limit is capped at the
// retained maximum.
func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > store.MaxAuditLogs {
		limit = store.MaxAuditLogs
	}
	return s.repo.ListAuditLogs(ctx, limit)
}

// BusinessInsights asks the advisor for a consultant-style summary. It never
// fails on advisor problems; those come back as a fallback message.
func (s *Service) BusinessInsights(ctx context.Context) (string, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return "", err
	}
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return "", err
	}
	return s.advisor.BusinessInsights(ctx, sales, medicines), nil
}

func (s *Service) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", apperror.NewValidation("query is required")
	}
	return s.advisor.Ask(ctx, query), nil
}
