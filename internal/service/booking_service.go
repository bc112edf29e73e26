package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"ledgerly-backend/internal/model"
	"ledgerly-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventPublisher pushes lifecycle events to connected dashboard clients.
// Publishing never blocks or fails a request.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// RevenueSyncer keeps revenue transactions consistent with invoice state.
// Implemented by the transaction service.
type RevenueSyncer interface {
	UpsertRevenueForInvoice(ctx context.Context, invoice *model.Invoice) error
	DeleteRevenueForInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) error
}

// --- DTOs ---

type CreateBookingRequest struct {
	BusinessID    string `json:"businessId" binding:"required"`
	ServiceID     string `json:"serviceId" binding:"required"`
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	StartAt       string `json:"startAt" binding:"required"` // RFC3339
	Notes         string `json:"notes"`
}

type PatchBookingRequest struct {
	BusinessID    string  `json:"businessId" binding:"required"`
	Status        *string `json:"status"`
	StartAt       *string `json:"startAt"`
	MarkPaid      *bool   `json:"markPaid"`
	Paid          *bool   `json:"paid"`
	PaymentAmount *string `json:"paymentAmount"` // decimal string
}

type BookingCreateResult struct {
	Booking       *model.Booking       `json:"booking"`
	CalendarEvent *model.CalendarEvent `json:"calendar_event"`
	Invoice       *model.Invoice       `json:"invoice"`
}

// --- Interface ---

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (BookingCreateResult, error)
	PatchBooking(ctx context.Context, userID uuid.UUID, id string, req PatchBookingRequest) (*model.Booking, error)
	DeleteBooking(ctx context.Context, userID uuid.UUID, id, businessID string) error
	ListBookings(ctx context.Context, userID uuid.UUID, businessID string, filter repository.BookingListFilter) ([]model.Booking, int64, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	eventRepo    repository.CalendarEventRepository
	invoiceRepo  repository.InvoiceRepository
	serviceRepo  repository.ServiceRepository
	businessRepo repository.BusinessRepository
	auditRepo    repository.AuditRepository
	revenue      RevenueSyncer
	publisher    EventPublisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.CalendarEventRepository,
	invoiceRepo repository.InvoiceRepository,
	serviceRepo repository.ServiceRepository,
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
	revenue RevenueSyncer,
	publisher EventPublisher,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		invoiceRepo:  invoiceRepo,
		serviceRepo:  serviceRepo,
		businessRepo: businessRepo,
		auditRepo:    auditRepo,
		revenue:      revenue,
		publisher:    publisher,
	}
}

// --- Create ---

// CreateBooking performs the ordered booking -> calendar event -> invoice ->
// link-back sequence. The remote schema exposes no cross-table transaction to
// this flow, so every failure after the booking insert triggers reverse-order
// compensating deletes: after a failure response none of the artifacts exist.
func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (BookingCreateResult, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return BookingCreateResult{}, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return BookingCreateResult{}, fmt.Errorf("%w: invalid serviceId", ErrInvalidInput)
	}
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return BookingCreateResult{}, fmt.Errorf("%w: invalid startAt, expected RFC3339", ErrInvalidInput)
	}

	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return BookingCreateResult{}, err
	}

	svc, err := s.serviceRepo.FindByID(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingCreateResult{}, fmt.Errorf("%w: service not found", ErrNotFound)
		}
		return BookingCreateResult{}, fmt.Errorf("failed to load service: %w", err)
	}

	endAt := startAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	// Check-then-act: concurrent creates for overlapping windows can both pass
	// this check and both commit. Accepted, not fixed here.
	conflicts, err := s.bookingRepo.FindOverlapping(ctx, businessID, startAt, endAt, nil)
	if err != nil {
		return BookingCreateResult{}, fmt.Errorf("failed to check availability: %w", err)
	}
	if len(conflicts) > 0 {
		return BookingCreateResult{}, ErrSlotUnavailable
	}

	booking := &model.Booking{
		BusinessID:    businessID,
		ServiceID:     serviceID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		StartAt:       startAt,
		EndAt:         endAt,
		Status:        model.BookingScheduled,
		PriceCents:    svc.PriceCents,
		Notes:         req.Notes,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return BookingCreateResult{}, fmt.Errorf("failed to create booking: %w", err)
	}

	event := &model.CalendarEvent{
		BusinessID: businessID,
		BookingID:  booking.ID,
		Title:      svc.Name + " - " + req.CustomerName,
		StartAt:    startAt,
		EndAt:      endAt,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.compensate(ctx, businessID, booking.ID, nil)
		return BookingCreateResult{}, fmt.Errorf("failed to create calendar event: %w", err)
	}

	invoice, err := s.createInvoiceForBooking(ctx, booking, svc)
	if err != nil {
		s.compensate(ctx, businessID, booking.ID, nil)
		return BookingCreateResult{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	if err := s.bookingRepo.SetInvoiceID(ctx, booking.ID, invoice.ID); err != nil {
		s.compensate(ctx, businessID, booking.ID, &invoice.ID)
		return BookingCreateResult{}, fmt.Errorf("failed to link invoice to booking: %w", err)
	}
	booking.InvoiceID = &invoice.ID

	s.writeAudit(ctx, businessID, userID, model.ActionCreateBooking, booking.ID.String(), req)
	s.publish("booking.created", booking)

	return BookingCreateResult{Booking: booking, CalendarEvent: event, Invoice: invoice}, nil
}

// compensate tears down partial create artifacts in reverse order. Failures
// here are logged only; there is nothing left to fall back to.
func (s *bookingService) compensate(ctx context.Context, businessID, bookingID uuid.UUID, invoiceID *uuid.UUID) {
	if invoiceID != nil {
		if err := s.invoiceRepo.Delete(ctx, businessID, *invoiceID); err != nil {
			log.Printf("WARNING: rollback failed to delete invoice %s: %v", invoiceID, err)
		}
	}
	if err := s.eventRepo.DeleteByBookingID(ctx, businessID, bookingID); err != nil {
		log.Printf("WARNING: rollback failed to delete calendar event for booking %s: %v", bookingID, err)
	}
	if err := s.bookingRepo.Delete(ctx, businessID, bookingID); err != nil {
		log.Printf("WARNING: rollback failed to delete booking %s: %v", bookingID, err)
	}
}

func (s *bookingService) createInvoiceForBooking(ctx context.Context, booking *model.Booking, svc *model.Service) (*model.Invoice, error) {
	invoiceNo, err := s.generateInvoiceNo(ctx, booking.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	amount := decimal.NewFromInt(booking.PriceCents).Div(decimal.NewFromInt(100))
	invoice := &model.Invoice{
		BusinessID: booking.BusinessID,
		InvoiceNo:  invoiceNo,
		ClientName: booking.CustomerName,
		Status:     model.InvoiceSent,
		Subtotal:   amount,
		Tax:        decimal.Zero,
		Total:      amount,
		BookingID:  &booking.ID,
		Items: []model.InvoiceItem{{
			Description: svc.Name,
			Quantity:    1,
			UnitPrice:   amount,
			Amount:      amount,
		}},
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *bookingService) generateInvoiceNo(ctx context.Context, businessID uuid.UUID) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "INV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, businessID, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Patch ---

// PatchBooking applies reschedule, status, and payment changes. The primary
// booking/invoice write in each branch is fatal; the dependent calendar,
// transaction, and note writes are best-effort and only logged on failure,
// leaving documented, accepted drift.
func (s *bookingService) PatchBooking(ctx context.Context, userID uuid.UUID, id string, req PatchBookingRequest) (*model.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrInvalidInput)
	}
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}

	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.FindByID(ctx, businessID, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	if req.StartAt != nil {
		if err := s.reschedule(ctx, userID, booking, *req.StartAt); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		if err := s.changeStatus(ctx, userID, booking, *req.Status); err != nil {
			return nil, err
		}
	}

	if req.Paid != nil || (req.MarkPaid != nil && *req.MarkPaid) {
		paid := true
		if req.Paid != nil {
			paid = *req.Paid
		}
		if err := s.togglePaid(ctx, userID, booking, paid); err != nil {
			return nil, err
		}
	} else if req.PaymentAmount != nil {
		if err := s.recordPartialPayment(ctx, userID, booking, *req.PaymentAmount); err != nil {
			return nil, err
		}
	}

	return s.bookingRepo.FindByID(ctx, businessID, bookingID)
}

func (s *bookingService) reschedule(ctx context.Context, userID uuid.UUID, booking *model.Booking, startAtRaw string) error {
	startAt, err := time.Parse(time.RFC3339, startAtRaw)
	if err != nil {
		return fmt.Errorf("%w: invalid startAt, expected RFC3339", ErrInvalidInput)
	}

	duration := booking.EndAt.Sub(booking.StartAt)
	if svc, svcErr := s.serviceRepo.FindByID(ctx, booking.BusinessID, booking.ServiceID); svcErr == nil {
		duration = time.Duration(svc.DurationMinutes) * time.Minute
	}
	endAt := startAt.Add(duration)

	conflicts, err := s.bookingRepo.FindOverlapping(ctx, booking.BusinessID, startAt, endAt, &booking.ID)
	if err != nil {
		return fmt.Errorf("failed to check availability: %w", err)
	}
	if len(conflicts) > 0 {
		return ErrSlotUnavailable
	}

	booking.StartAt = startAt
	booking.EndAt = endAt
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to reschedule booking: %w", err)
	}

	if err := s.eventRepo.UpdateWindowByBookingID(ctx, booking.BusinessID, booking.ID, startAt, endAt); err != nil {
		log.Printf("WARNING: failed to retime calendar event for booking %s: %v", booking.ID, err)
	}
	if booking.InvoiceID != nil {
		s.appendInvoiceNote(ctx, booking, "Booking rescheduled to "+startAt.Format(time.RFC3339))
	}

	s.writeAudit(ctx, booking.BusinessID, userID, model.ActionRescheduleBooking, booking.ID.String(),
		map[string]string{"start_at": startAt.Format(time.RFC3339)})
	return nil
}

func (s *bookingService) changeStatus(ctx context.Context, userID uuid.UUID, booking *model.Booking, status string) error {
	switch status {
	case model.BookingScheduled, model.BookingCompleted, model.BookingCancelled:
	default:
		return fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, status)
	}

	booking.Status = status
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if status != model.BookingCancelled {
		return nil
	}

	// Cancellation cleanup, each step best-effort.
	if err := s.eventRepo.DeleteByBookingID(ctx, booking.BusinessID, booking.ID); err != nil {
		log.Printf("WARNING: failed to delete calendar event for cancelled booking %s: %v", booking.ID, err)
	}
	if booking.InvoiceID != nil {
		if err := s.invoiceRepo.UpdateStatus(ctx, booking.BusinessID, *booking.InvoiceID, model.InvoiceVoid); err != nil {
			log.Printf("WARNING: failed to void invoice %s: %v", booking.InvoiceID, err)
		}
		if err := s.revenue.DeleteRevenueForInvoice(ctx, booking.BusinessID, *booking.InvoiceID); err != nil {
			log.Printf("WARNING: failed to delete revenue transaction for invoice %s: %v", booking.InvoiceID, err)
		}
		s.appendInvoiceNote(ctx, booking, "Booking cancelled")
	}

	s.writeAudit(ctx, booking.BusinessID, userID, model.ActionCancelBooking, booking.ID.String(), nil)
	s.publish("booking.cancelled", booking)
	return nil
}

func (s *bookingService) togglePaid(ctx context.Context, userID uuid.UUID, booking *model.Booking, paid bool) error {
	if booking.InvoiceID == nil {
		return fmt.Errorf("%w: booking has no linked invoice", ErrInvalidInput)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, booking.BusinessID, *booking.InvoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: linked invoice not found", ErrNotFound)
		}
		return fmt.Errorf("failed to load invoice: %w", err)
	}

	if paid {
		if err := s.invoiceRepo.UpdateStatus(ctx, booking.BusinessID, invoice.ID, model.InvoicePaid); err != nil {
			return fmt.Errorf("failed to mark invoice paid: %w", err)
		}
		invoice.Status = model.InvoicePaid
		if err := s.revenue.UpsertRevenueForInvoice(ctx, invoice); err != nil {
			log.Printf("WARNING: failed to upsert revenue transaction for invoice %s: %v", invoice.ID, err)
		}
		s.appendInvoiceNote(ctx, booking, "Marked paid")
		s.writeAudit(ctx, booking.BusinessID, userID, model.ActionMarkInvoicePaid, invoice.ID.String(), nil)
		s.publish("invoice.paid", invoice)
		return nil
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, booking.BusinessID, invoice.ID, model.InvoiceSent); err != nil {
		return fmt.Errorf("failed to mark invoice unpaid: %w", err)
	}
	invoice.Status = model.InvoiceSent
	if err := s.revenue.DeleteRevenueForInvoice(ctx, booking.BusinessID, invoice.ID); err != nil {
		log.Printf("WARNING: failed to delete revenue transaction for invoice %s: %v", invoice.ID, err)
	}
	s.appendInvoiceNote(ctx, booking, "Marked unpaid")
	s.writeAudit(ctx, booking.BusinessID, userID, model.ActionMarkInvoiceUnpaid, invoice.ID.String(), nil)
	s.publish("invoice.unpaid", invoice)
	return nil
}

func (s *bookingService) recordPartialPayment(ctx context.Context, userID uuid.UUID, booking *model.Booking, amountRaw string) error {
	if booking.InvoiceID == nil {
		return fmt.Errorf("%w: booking has no linked invoice", ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(amountRaw)
	if err != nil {
		return fmt.Errorf("%w: invalid paymentAmount", ErrInvalidInput)
	}

	applied, err := s.invoiceRepo.AddPayment(ctx, booking.BusinessID, *booking.InvoiceID, amount)
	if err != nil {
		log.Printf("WARNING: failed to record partial payment on invoice %s: %v", booking.InvoiceID, err)
	} else if !applied {
		log.Printf("WARNING: amount_paid column not present; partial payment on invoice %s not recorded", booking.InvoiceID)
	}

	// Re-sync the revenue transaction with the invoice's current state.
	invoice, err := s.invoiceRepo.FindByID(ctx, booking.BusinessID, *booking.InvoiceID)
	if err != nil {
		log.Printf("WARNING: failed to reload invoice %s after payment: %v", booking.InvoiceID, err)
		return nil
	}
	if invoice.Status == model.InvoicePaid {
		if err := s.revenue.UpsertRevenueForInvoice(ctx, invoice); err != nil {
			log.Printf("WARNING: failed to upsert revenue transaction for invoice %s: %v", invoice.ID, err)
		}
	} else {
		if err := s.revenue.DeleteRevenueForInvoice(ctx, booking.BusinessID, invoice.ID); err != nil {
			log.Printf("WARNING: failed to delete revenue transaction for invoice %s: %v", invoice.ID, err)
		}
	}

	s.appendInvoiceNote(ctx, booking, "Payment received: "+amount.StringFixed(2))
	s.writeAudit(ctx, booking.BusinessID, userID, model.ActionRecordPayment, booking.InvoiceID.String(),
		map[string]string{"amount": amount.StringFixed(2)})
	return nil
}

// --- Delete ---

// DeleteBooking voids the linked invoice and its revenue transaction
// (best-effort), removes the booking, then sweeps any remaining calendar
// event. There is no compensation if the booking delete fails after the
// invoice was already voided.
func (s *bookingService) DeleteBooking(ctx context.Context, userID uuid.UUID, id, businessIDRaw string) error {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid booking id", ErrInvalidInput)
	}
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}

	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return err
	}

	booking, err := s.bookingRepo.FindByID(ctx, businessID, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: booking not found", ErrNotFound)
		}
		return fmt.Errorf("failed to load booking: %w", err)
	}

	if booking.InvoiceID != nil {
		if err := s.invoiceRepo.UpdateStatus(ctx, businessID, *booking.InvoiceID, model.InvoiceVoid); err != nil {
			log.Printf("WARNING: failed to void invoice %s: %v", booking.InvoiceID, err)
		}
		if err := s.revenue.DeleteRevenueForInvoice(ctx, businessID, *booking.InvoiceID); err != nil {
			log.Printf("WARNING: failed to delete revenue transaction for invoice %s: %v", booking.InvoiceID, err)
		}
		s.appendInvoiceNote(ctx, booking, "Booking deleted")
	}

	if err := s.bookingRepo.Delete(ctx, businessID, bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if err := s.eventRepo.DeleteByBookingID(ctx, businessID, bookingID); err != nil {
		log.Printf("WARNING: failed to delete calendar event for booking %s: %v", bookingID, err)
	}

	s.writeAudit(ctx, businessID, userID, model.ActionDeleteBooking, bookingID.String(), nil)
	s.publish("booking.deleted", map[string]string{"id": bookingID.String()})
	return nil
}

// --- List ---

func (s *bookingService) ListBookings(ctx context.Context, userID uuid.UUID, businessIDRaw string, filter repository.BookingListFilter) ([]model.Booking, int64, error) {
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
	return s.bookingRepo.List(ctx, businessID, filter)
}

// --- Helpers ---

func (s *bookingService) requireAccess(ctx context.Context, businessID, userID uuid.UUID) error {
	ok, err := s.businessRepo.HasAccess(ctx, businessID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify business access: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: no access to business", ErrForbidden)
	}
	return nil
}

func (s *bookingService) appendInvoiceNote(ctx context.Context, booking *model.Booking, note string) {
	if booking.InvoiceID == nil {
		return
	}
	stamped := time.Now().UTC().Format(time.RFC3339) + " " + note
	if err := s.invoiceRepo.AppendNote(ctx, booking.BusinessID, *booking.InvoiceID, stamped); err != nil {
		log.Printf("WARNING: failed to append note to invoice %s: %v", booking.InvoiceID, err)
	}
}

func (s *bookingService) writeAudit(ctx context.Context, businessID, userID uuid.UUID, action, entityID string, details interface{}) {
	detailsJSON := "{}"
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}
	entry := &model.AuditLog{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		Details:    detailsJSON,
	}
	if err := s.auditRepo.Write(ctx, entry); err != nil {
		log.Printf("WARNING: failed to write audit log (%s %s): %v", action, entityID, err)
	}
}

func (s *bookingService) publish(event string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(event, payload)
	}
}
