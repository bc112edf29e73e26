package service

import (
	"context"
	"fmt"
	"time"

	"ledgerly-backend/internal/model"
	"ledgerly-backend/internal/repository"
	"ledgerly-backend/pkg/ics"

	"github.com/google/uuid"
)

type CalendarService interface {
	ListEvents(ctx context.Context, userID uuid.UUID, businessIDRaw string, from, to time.Time) ([]model.CalendarEvent, error)
	// ExportICS renders the business's calendar events in range as an
	// iCalendar document.
	ExportICS(ctx context.Context, userID uuid.UUID, businessIDRaw string, from, to time.Time) (string, error)
}

type calendarService struct {
	eventRepo    repository.CalendarEventRepository
	businessRepo repository.BusinessRepository
}

func NewCalendarService(eventRepo repository.CalendarEventRepository, businessRepo repository.BusinessRepository) CalendarService {
	return &calendarService{eventRepo: eventRepo, businessRepo: businessRepo}
}

func (s *calendarService) ListEvents(ctx context.Context, userID uuid.UUID, businessIDRaw string, from, to time.Time) ([]model.CalendarEvent, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListInRange(ctx, businessID, from, to)
}

func (s *calendarService) ExportICS(ctx context.Context, userID uuid.UUID, businessIDRaw string, from, to time.Time) (string, error) {
	events, err := s.ListEvents(ctx, userID, businessIDRaw, from, to)
	if err != nil {
		return "", err
	}

	icsEvents := make([]ics.Event, 0, len(events))
	for _, ev := range events {
		icsEvents = append(icsEvents, ics.Event{
			UID:     ev.ID.String() + "@ledgerly",
			Summary: ev.Title,
			Start:   ev.StartAt,
			End:     ev.EndAt,
		})
	}
	return ics.Encode(icsEvents, time.Now()), nil
}

func (s *calendarService) requireAccess(ctx context.Context, businessID, userID uuid.UUID) error {
	ok, err := s.businessRepo.HasAccess(ctx, businessID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify business access: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: no access to business", ErrForbidden)
	}
	return nil
}
