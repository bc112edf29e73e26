package service

import (
	"context"
	"errors"
	"fmt"

	"ledgerly-backend/internal/model"
	"ledgerly-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceService exposes read access to invoices. Invoices are created and
// transitioned by the booking flows, never directly through this service.
type InvoiceService interface {
	GetInvoice(ctx context.Context, userID uuid.UUID, businessIDRaw, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, userID uuid.UUID, businessIDRaw string, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	businessRepo repository.BusinessRepository
}

func NewInvoiceService(invoiceRepo repository.InvoiceRepository, businessRepo repository.BusinessRepository) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo, businessRepo: businessRepo}
}

func (s *invoiceService) GetInvoice(ctx context.Context, userID uuid.UUID, businessIDRaw, id string) (*model.Invoice, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}
	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, businessID, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, userID uuid.UUID, businessIDRaw string, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return nil, 0, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.invoiceRepo.List(ctx, businessID, filter)
}

func (s *invoiceService) requireAccess(ctx context.Context, businessID, userID uuid.UUID) error {
	ok, err := s.businessRepo.HasAccess(ctx, businessID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify business access: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: no access to business", ErrForbidden)
	}
	return nil
}
