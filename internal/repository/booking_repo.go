package repository

import (
	"context"
	"time"

	"ledgerly-backend/internal/database"
	"ledgerly-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingListFilter struct {
	Status string // scheduled, completed, cancelled or empty for all
	Page   int
	Limit  int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Booking, error)
	// FindOverlapping returns non-cancelled bookings whose [start_at, end_at)
	// window intersects [start, end), optionally excluding one booking id.
	FindOverlapping(ctx context.Context, businessID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	SetInvoiceID(ctx context.Context, bookingID, invoiceID uuid.UUID) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
	List(ctx context.Context, businessID uuid.UUID, filter BookingListFilter) ([]model.Booking, int64, error)
}

type bookingRepository struct {
	db   *gorm.DB
	caps database.Capabilities
}

func NewBookingRepository(db *gorm.DB, caps database.Capabilities) BookingRepository {
	return &bookingRepository{db: db, caps: caps}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	tx := GetDB(ctx, r.db)
	if !r.caps.BookingPriceCents {
		tx = tx.Omit("price_cents")
	}
	return tx.Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).First(&booking, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, businessID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	query := GetDB(ctx, r.db).
		Where("business_id = ? AND status <> ? AND start_at < ? AND end_at > ?",
			businessID, model.BookingCancelled, end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	tx := GetDB(ctx, r.db)
	if !r.caps.BookingPriceCents {
		tx = tx.Omit("price_cents")
	}
	return tx.Save(booking).Error
}

func (r *bookingRepository) SetInvoiceID(ctx context.Context, bookingID, invoiceID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Booking{}).
		Where("id = ?", bookingID).
		Update("invoice_id", invoiceID).Error
}

func (r *bookingRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&model.Booking{}).Error
}

func (r *bookingRepository) List(ctx context.Context, businessID uuid.UUID, filter BookingListFilter) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Booking{}).Where("business_id = ?", businessID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := db.Preload("Service").Where("business_id = ?", businessID)
	if filter.Status != "" {
		fetchQuery = fetchQuery.Where("status = ?", filter.Status)
	}
	if err := fetchQuery.Order("start_at desc").Offset(offset).Limit(filter.Limit).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
