package service

import (
	"bytes"
	"context"
	"fmt"

	"pharmapulse/backend/internal/apperror"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/metrics"
	"pharmapulse/backend/internal/report"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Document is a rendered download.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

const (
	ReceiptFormatText = "text"
	ReceiptFormatHTML = "html"
	ReceiptFormatPDF  = "pdf"
)

func (s *Service) ListSales(ctx context.Context, q metrics.SalesQuery) ([]domain.Sale, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	if q.Location == nil {
		q.Location = s.location
	}
	return metrics.FilterSales(sales, q), nil
}

func (s *Service) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return domain.Sale{}, err
	}
	for _, sale := range sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return domain.Sale{}, apperror.NewNotFound("sale", id)
}

func (s *Service) receiptOptions() report.ReceiptOptions {
	return report.ReceiptOptions{BusinessName: s.businessName, Location: s.location}
}

// Receipt renders a stored sale; format is text (default), html or pdf.
func (s *Service) Receipt(ctx context.Context, saleID string, format string) (Document, error) {
	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return Document{}, err
	}

	opts := s.receiptOptions()
	switch format {
	case "", ReceiptFormatText:
		return Document{
			Filename:    fmt.Sprintf("receipt_%s.txt", sale.ID),
			ContentType: ContentTypeText,
			Body:        []byte(report.ReceiptText(sale, opts)),
		}, nil
	case ReceiptFormatHTML:
		page, err := report.ReceiptHTML(sale, opts)
		if err != nil {
			return Document{}, apperror.NewInternal(err)
		}
		return Document{
			Filename:    fmt.Sprintf("receipt_%s.html", sale.ID),
			ContentType: ContentTypeHTML,
			Body:        []byte(page),
		}, nil
	case ReceiptFormatPDF:
		data, err := report.ReceiptPDF(sale, opts)
		if err != nil {
			return Document{}, apperror.NewInternal(err)
		}
		return Document{
			Filename:    fmt.Sprintf("receipt_%s.pdf", sale.ID),
			ContentType: ContentTypePDF,
			Body:        data,
		}, nil
	default:
		return Document{}, apperror.NewValidation("unsupported receipt format").WithDetail("format", format)
	}
}

// SalesCSV exports the filtered sales history.
func (s *Service) SalesCSV(ctx context.Context, q metrics.SalesQuery) (Document, error) {
	sales, err := s.ListSales(ctx, q)
	if err != nil {
		return Document{}, err
	}
	f, _, err := s.formatter(ctx)
	if err != nil {
		return Document{}, err
	}

	var buf bytes.Buffer
	if err := report.WriteSalesCSV(&buf, sales, f.Date); err != nil {
		return Document{}, apperror.NewInternal(err)
	}
	return Document{
		Filename:    fmt.Sprintf("sales_history_%s.csv", domain.DateOf(s.now().In(s.location))),
		ContentType: ContentTypeCSV,
		Body:        buf.Bytes(),
	}, nil
}

// SalesPDF renders the filtered sales history as a printable report.
func (s *Service) SalesPDF(ctx context.Context, q metrics.SalesQuery) (Document, error) {
	sales, err := s.ListSales(ctx, q)
	if err != nil {
		return Document{}, err
	}
	f, _, err := s.formatter(ctx)
	if err != nil {
		return Document{}, err
	}

	data, err := report.SalesPDF(sales, report.SalesReportOptions{
		BusinessName: s.businessName,
		Currency:     f.Currency(),
		GeneratedAt:  s.now(),
		DateFormat:   f.Date,
	})
	if err != nil {
		return Document{}, apperror.NewInternal(err)
	}
	return Document{
		Filename:    fmt.Sprintf("sales_report_%s.pdf", domain.DateOf(s.now().In(s.location))),
		ContentType: ContentTypePDF,
		Body:        data,
	}, nil
}
