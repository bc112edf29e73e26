package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledgerly-backend/internal/model"
	"ledgerly-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeBookingRepo struct {
	bookings       map[uuid.UUID]*model.Booking
	failCreate     error
	failSetInvoice error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*model.Booking{}}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok || b.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, businessID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range r.bookings {
		if b.BusinessID != businessID || b.Status == model.BookingCancelled {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.StartAt.Before(end) && b.EndAt.After(start) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *model.Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) SetInvoiceID(_ context.Context, bookingID, invoiceID uuid.UUID) error {
	if r.failSetInvoice != nil {
		return r.failSetInvoice
	}
	b, ok := r.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.InvoiceID = &invoiceID
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, businessID, id uuid.UUID) error {
	b, ok := r.bookings[id]
	if !ok || b.BusinessID != businessID {
		return nil
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) List(_ context.Context, businessID uuid.UUID, _ repository.BookingListFilter) ([]model.Booking, int64, error) {
	var out []model.Booking
	for _, b := range r.bookings {
		if b.BusinessID == businessID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

type fakeEventRepo struct {
	events     map[uuid.UUID]*model.CalendarEvent // keyed by booking id
	failCreate error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[uuid.UUID]*model.CalendarEvent{}}
}

func (r *fakeEventRepo) Create(_ context.Context, e *model.CalendarEvent) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	r.events[e.BookingID] = &cp
	return nil
}

func (r *fakeEventRepo) DeleteByBookingID(_ context.Context, _, bookingID uuid.UUID) error {
	delete(r.events, bookingID)
	return nil
}

func (r *fakeEventRepo) UpdateWindowByBookingID(_ context.Context, _, bookingID uuid.UUID, start, end time.Time) error {
	e, ok := r.events[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.StartAt = start
	e.EndAt = end
	return nil
}

func (r *fakeEventRepo) ListInRange(_ context.Context, businessID uuid.UUID, from, to time.Time) ([]model.CalendarEvent, error) {
	var out []model.CalendarEvent
	for _, e := range r.events {
		if e.BusinessID == businessID && e.StartAt.Before(to) && e.EndAt.After(from) {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeInvoiceRepo struct {
	invoices   map[uuid.UUID]*model.Invoice
	failCreate error
	addPayment bool // whether the amount_paid column is available
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[uuid.UUID]*model.Invoice{}, addPayment: true}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok || inv.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, businessID, id uuid.UUID, status string) error {
	inv, ok := r.invoices[id]
	if !ok || inv.BusinessID != businessID {
		return gorm.ErrRecordNotFound
	}
	inv.Status = status
	return nil
}

func (r *fakeInvoiceRepo) AppendNote(_ context.Context, businessID, id uuid.UUID, note string) error {
	inv, ok := r.invoices[id]
	if !ok || inv.BusinessID != businessID {
		return gorm.ErrRecordNotFound
	}
	if inv.Notes == "" {
		inv.Notes = note
	} else {
		inv.Notes += "\n" + note
	}
	return nil
}

func (r *fakeInvoiceRepo) AddPayment(_ context.Context, businessID, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	if !r.addPayment {
		return false, nil
	}
	inv, ok := r.invoices[id]
	if !ok || inv.BusinessID != businessID {
		return false, gorm.ErrRecordNotFound
	}
	paid := decimal.Zero
	if inv.AmountPaid != nil {
		paid = *inv.AmountPaid
	}
	total := paid.Add(amount)
	inv.AmountPaid = &total
	return true, nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, businessID, id uuid.UUID) error {
	inv, ok := r.invoices[id]
	if ok && inv.BusinessID == businessID {
		delete(r.invoices, id)
	}
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, businessID uuid.UUID, _ repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.BusinessID == businessID {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) CountByPrefix(_ context.Context, businessID uuid.UUID, prefix string) (int64, error) {
	var n int64
	for _, inv := range r.invoices {
		if inv.BusinessID == businessID && len(inv.InvoiceNo) >= len(prefix) && inv.InvoiceNo[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[uuid.UUID]*model.Service{}}
}

func (r *fakeServiceRepo) Create(_ context.Context, s *model.Service) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*model.Service, error) {
	s, ok := r.services[id]
	if !ok || s.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeServiceRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]model.Service, error) {
	var out []model.Service
	for _, s := range r.services {
		if s.BusinessID == businessID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, s *model.Service) error {
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

type fakeBusinessRepo struct {
	access map[uuid.UUID]bool // keyed by business id, true if caller has access
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{access: map[uuid.UUID]bool{}}
}

func (r *fakeBusinessRepo) Create(_ context.Context, b *model.Business) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.access[b.ID] = true
	return nil
}

func (r *fakeBusinessRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Business, error) {
	if !r.access[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Business{ID: id}, nil
}

func (r *fakeBusinessRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]model.Business, error) {
	return nil, nil
}

func (r *fakeBusinessRepo) HasAccess(_ context.Context, businessID, _ uuid.UUID) (bool, error) {
	return r.access[businessID], nil
}

func (r *fakeBusinessRepo) AddMember(_ context.Context, _ *model.BusinessMember) error {
	return nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Write(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _ uuid.UUID, _, _ int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

// fakeRevenue tracks revenue rows keyed by invoice id, mirroring the
// (business_id, invoice_id) upsert key.
type fakeRevenue struct {
	rows map[uuid.UUID]decimal.Decimal
}

func newFakeRevenue() *fakeRevenue {
	return &fakeRevenue{rows: map[uuid.UUID]decimal.Decimal{}}
}

func (f *fakeRevenue) UpsertRevenueForInvoice(_ context.Context, invoice *model.Invoice) error {
	f.rows[invoice.ID] = invoice.Total
	return nil
}

func (f *fakeRevenue) DeleteRevenueForInvoice(_ context.Context, _, invoiceID uuid.UUID) error {
	delete(f.rows, invoiceID)
	return nil
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(event string, _ interface{}) {
	p.events = append(p.events, event)
}

// --- Fixture ---

type bookingFixture struct {
	svc         BookingService
	bookingRepo *fakeBookingRepo
	eventRepo   *fakeEventRepo
	invoiceRepo *fakeInvoiceRepo
	serviceRepo *fakeServiceRepo
	revenue     *fakeRevenue
	publisher   *fakePublisher
	userID      uuid.UUID
	businessID  uuid.UUID
	serviceID   uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		bookingRepo: newFakeBookingRepo(),
		eventRepo:   newFakeEventRepo(),
		invoiceRepo: newFakeInvoiceRepo(),
		serviceRepo: newFakeServiceRepo(),
		revenue:     newFakeRevenue(),
		publisher:   &fakePublisher{},
		userID:      uuid.New(),
		businessID:  uuid.New(),
	}

	businessRepo := newFakeBusinessRepo()
	businessRepo.access[f.businessID] = true

	catalog := &model.Service{
		BusinessID:      f.businessID,
		Name:            "Haircut",
		DurationMinutes: 30,
		PriceCents:      4500,
		Active:          true,
	}
	require.NoError(t, f.serviceRepo.Create(context.Background(), catalog))
	f.serviceID = catalog.ID

	f.svc = NewBookingService(
		f.bookingRepo, f.eventRepo, f.invoiceRepo, f.serviceRepo,
		businessRepo, &fakeAuditRepo{}, f.revenue, f.publisher,
	)
	return f
}

func (f *bookingFixture) createRequest(startAt time.Time) CreateBookingRequest {
	return CreateBookingRequest{
		BusinessID:   f.businessID.String(),
		ServiceID:    f.serviceID.String(),
		CustomerName: "Jane Doe",
		StartAt:      startAt.Format(time.RFC3339),
	}
}

// --- Tests ---

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)
	startAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	result, err := f.svc.CreateBooking(context.Background(), f.userID, f.createRequest(startAt))
	require.NoError(t, err)

	require.NotNil(t, result.Booking)
	assert.Equal(t, model.BookingScheduled, result.Booking.Status)
	assert.Equal(t, startAt, result.Booking.StartAt)
	assert.Equal(t, startAt.Add(30*time.Minute), result.Booking.EndAt)
	assert.Equal(t, int64(4500), result.Booking.PriceCents)

	require.NotNil(t, result.CalendarEvent)
	assert.Equal(t, result.Booking.ID, result.CalendarEvent.BookingID)
	assert.Equal(t, "Haircut - Jane Doe", result.CalendarEvent.Title)
	assert.Equal(t, startAt, result.CalendarEvent.StartAt)

	require.NotNil(t, result.Invoice)
	assert.Equal(t, model.InvoiceSent, result.Invoice.Status)
	assert.True(t, decimal.NewFromFloat(45).Equal(result.Invoice.Total), "total should be 45.00, got %s", result.Invoice.Total)
	assert.Regexp(t, `^INV-\d{8}-\d{5}$`, result.Invoice.InvoiceNo)
	require.Len(t, result.Invoice.Items, 1)
	assert.Equal(t, "Haircut", result.Invoice.Items[0].Description)

	// Link-back persisted.
	stored, err := f.bookingRepo.FindByID(context.Background(), f.businessID, result.Booking.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.InvoiceID)
	assert.Equal(t, result.Invoice.ID, *stored.InvoiceID)

	assert.Contains(t, f.publisher.events, "booking.created")
}

func TestCreateBookingOverlapRejected(t *testing.T) {
	f := newBookingFixture(t)
	startAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.svc.CreateBooking(context.Background(), f.userID, f.createRequest(startAt))
	require.NoError(t, err)

	// Second booking starts inside the first window.
	_, err = f.svc.CreateBooking(context.Background(), f.userID, f.createRequest(startAt.Add(15*time.Minute)))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Back-to-back at the exact boundary is allowed ([start, end) windows).
	_, err = f.svc.CreateBooking(context.Background(), f.userID, f.createRequest(startAt.Add(30*time.Minute)))
	assert.NoError(t, err)
}

func TestCreateBookingCompensatesOnEventFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.eventRepo.failCreate = errors.New("event insert failed")

	_, err := f.svc.CreateBooking(context.Background(), f.userID,
		f.createRequest(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)))
	require.Error(t, err)

	assert.Empty(t, f.bookingRepo.bookings, "booking should be rolled back")
	assert.Empty(t, f.eventRepo.events)
	assert.Empty(t, f.invoiceRepo.invoices)
}

func TestCreateBookingCompensatesOnInvoiceFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.invoiceRepo.failCreate = errors.New("invoice insert failed")

	_, err := f.svc.CreateBooking(context.Background(), f.userID,
		f.createRequest(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)))
	require.Error(t, err)

	assert.Empty(t, f.bookingRepo.bookings)
	assert.Empty(t, f.eventRepo.events)
	assert.Empty(t, f.invoiceRepo.invoices)
}

func TestCreateBookingCompensatesOnLinkFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.bookingRepo.failSetInvoice = errors.New("link update failed")

	_, err := f.svc.CreateBooking(context.Background(), f.userID,
		f.createRequest(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)))
	require.Error(t, err)

	assert.Empty(t, f.bookingRepo.bookings)
	assert.Empty(t, f.eventRepo.events)
	assert.Empty(t, f.invoiceRepo.invoices, "orphan invoice should be deleted")
}

func TestCreateBookingForbiddenWithoutAccess(t *testing.T) {
	f := newBookingFixture(t)
	req := f.createRequest(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	req.BusinessID = uuid.New().String() // a business the caller does not belong to

	_, err := f.svc.CreateBooking(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateBookingInvalidInput(t *testing.T) {
	f := newBookingFixture(t)

	req := f.createRequest(time.Now())
	req.StartAt = "tomorrow at noon"
	_, err := f.svc.CreateBooking(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = f.createRequest(time.Now())
	req.ServiceID = "not-a-uuid"
	_, err = f.svc.CreateBooking(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPatchBookingPayUnpayRoundTrip(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	startAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	result, err := f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt))
	require.NoError(t, err)
	invoiceID := result.Invoice.ID

	paid := true
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		Paid:       &paid,
	})
	require.NoError(t, err)

	inv, err := f.invoiceRepo.FindByID(ctx, f.businessID, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, inv.Status)
	assert.Len(t, f.revenue.rows, 1, "paying creates exactly one revenue row")
	assert.Contains(t, f.publisher.events, "invoice.paid")

	// Paying again must not duplicate the revenue row.
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		Paid:       &paid,
	})
	require.NoError(t, err)
	assert.Len(t, f.revenue.rows, 1)

	unpaid := false
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		Paid:       &unpaid,
	})
	require.NoError(t, err)

	inv, err = f.invoiceRepo.FindByID(ctx, f.businessID, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceSent, inv.Status)
	assert.Empty(t, f.revenue.rows, "unpaying removes the revenue row")
	assert.Contains(t, f.publisher.events, "invoice.unpaid")

	// Re-paying after the round trip leaves exactly one revenue row again.
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		Paid:       &paid,
	})
	require.NoError(t, err)
	assert.Len(t, f.revenue.rows, 1)
}

func TestPatchBookingCancelCleansUp(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	startAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	result, err := f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt))
	require.NoError(t, err)

	paid := true
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		Paid:       &paid,
	})
	require.NoError(t, err)
	require.Len(t, f.revenue.rows, 1)

	cancelled := model.BookingCancelled
	updated, err := f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		Status:     &cancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, updated.Status)

	assert.Empty(t, f.eventRepo.events, "calendar event removed on cancel")
	assert.Empty(t, f.revenue.rows, "revenue row removed on cancel")
	inv, err := f.invoiceRepo.FindByID(ctx, f.businessID, result.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceVoid, inv.Status)
	assert.Contains(t, f.publisher.events, "booking.cancelled")

	// The cancelled slot is free again.
	_, err = f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt))
	assert.NoError(t, err)
}

func TestPatchBookingReschedule(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	startAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	result, err := f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt))
	require.NoError(t, err)

	newStart := startAt.Add(2 * time.Hour)
	raw := newStart.Format(time.RFC3339)
	updated, err := f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		StartAt:    &raw,
	})
	require.NoError(t, err)
	assert.Equal(t, newStart, updated.StartAt)
	assert.Equal(t, newStart.Add(30*time.Minute), updated.EndAt)

	event := f.eventRepo.events[result.Booking.ID]
	require.NotNil(t, event)
	assert.Equal(t, newStart, event.StartAt, "calendar event retimed with the booking")

	// Rescheduling onto another booking's window is rejected.
	other, err := f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt))
	require.NoError(t, err)
	conflict := newStart.Format(time.RFC3339)
	_, err = f.svc.PatchBooking(ctx, f.userID, other.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		StartAt:    &conflict,
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestPatchBookingRescheduleExcludesSelf(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	startAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	result, err := f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt))
	require.NoError(t, err)

	// Shifting by less than the duration still overlaps the old window; the
	// booking must not conflict with itself.
	raw := startAt.Add(10 * time.Minute).Format(time.RFC3339)
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		StartAt:    &raw,
	})
	assert.NoError(t, err)
}

func TestPatchBookingPartialPayment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	result, err := f.svc.CreateBooking(ctx, f.userID,
		f.createRequest(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	amount := "20.00"
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID:    f.businessID.String(),
		PaymentAmount: &amount,
	})
	require.NoError(t, err)

	inv, err := f.invoiceRepo.FindByID(ctx, f.businessID, result.Invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, inv.AmountPaid)
	assert.True(t, decimal.NewFromFloat(20).Equal(*inv.AmountPaid))
	assert.Equal(t, model.InvoiceSent, inv.Status, "partial payment does not mark the invoice paid")
	assert.Empty(t, f.revenue.rows, "no revenue until the invoice is paid")
}

func TestPatchBookingPartialPaymentWithoutColumn(t *testing.T) {
	f := newBookingFixture(t)
	f.invoiceRepo.addPayment = false
	ctx := context.Background()

	result, err := f.svc.CreateBooking(ctx, f.userID,
		f.createRequest(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	// The payment is dropped with a warning but the request still succeeds.
	amount := "20.00"
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID:    f.businessID.String(),
		PaymentAmount: &amount,
	})
	require.NoError(t, err)

	inv, err := f.invoiceRepo.FindByID(ctx, f.businessID, result.Invoice.ID)
	require.NoError(t, err)
	assert.Nil(t, inv.AmountPaid)
}

func TestDeleteBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	result, err := f.svc.CreateBooking(ctx, f.userID,
		f.createRequest(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	paid := true
	_, err = f.svc.PatchBooking(ctx, f.userID, result.Booking.ID.String(), PatchBookingRequest{
		BusinessID: f.businessID.String(),
		Paid:       &paid,
	})
	require.NoError(t, err)

	err = f.svc.DeleteBooking(ctx, f.userID, result.Booking.ID.String(), f.businessID.String())
	require.NoError(t, err)

	assert.Empty(t, f.bookingRepo.bookings)
	assert.Empty(t, f.eventRepo.events)
	assert.Empty(t, f.revenue.rows)
	inv, err := f.invoiceRepo.FindByID(ctx, f.businessID, result.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceVoid, inv.Status, "invoice is voided, not deleted")
}

func TestDeleteBookingNotFound(t *testing.T) {
	f := newBookingFixture(t)
	err := f.svc.DeleteBooking(context.Background(), f.userID, uuid.New().String(), f.businessID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceNumbersIncrementPerDay(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	startAt := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	first, err := f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt))
	require.NoError(t, err)
	second, err := f.svc.CreateBooking(ctx, f.userID, f.createRequest(startAt.Add(time.Hour)))
	require.NoError(t, err)

	prefix := "INV-" + time.Now().Format("20060102") + "-"
	assert.Equal(t, prefix+"00001", first.Invoice.InvoiceNo)
	assert.Equal(t, prefix+"00002", second.Invoice.InvoiceNo)
}
