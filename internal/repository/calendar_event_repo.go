package repository

import (
	"context"
	"time"

	"ledgerly-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarEventRepository interface {
	Create(ctx context.Context, event *model.CalendarEvent) error
	DeleteByBookingID(ctx context.Context, businessID, bookingID uuid.UUID) error
	UpdateWindowByBookingID(ctx context.Context, businessID, bookingID uuid.UUID, start, end time.Time) error
	ListInRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]model.CalendarEvent, error)
}

type calendarEventRepository struct {
	db *gorm.DB
}

func NewCalendarEventRepository(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepository{db: db}
}

func (r *calendarEventRepository) Create(ctx context.Context, event *model.CalendarEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *calendarEventRepository) DeleteByBookingID(ctx context.Context, businessID, bookingID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("business_id = ? AND booking_id = ?", businessID, bookingID).
		Delete(&model.CalendarEvent{}).Error
}

func (r *calendarEventRepository) UpdateWindowByBookingID(ctx context.Context, businessID, bookingID uuid.UUID, start, end time.Time) error {
	return GetDB(ctx, r.db).Model(&model.CalendarEvent{}).
		Where("business_id = ? AND booking_id = ?", businessID, bookingID).
		Updates(map[string]interface{}{"start_at": start, "end_at": end}).Error
}

func (r *calendarEventRepository) ListInRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	query := GetDB(ctx, r.db).Where("business_id = ?", businessID)
	if !from.IsZero() {
		query = query.Where("end_at > ?", from)
	}
	if !to.IsZero() {
		query = query.Where("start_at < ?", to)
	}
	if err := query.Order("start_at asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
