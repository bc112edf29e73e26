package model

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is the display/export projection of a booking's time window.
// One-to-one with a non-cancelled booking: created right after the booking
// insert, retimed on reschedule, removed on cancel or delete.
type CalendarEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index" json:"business_id"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	StartAt    time.Time `gorm:"not null;index" json:"start_at"`
	EndAt      time.Time `gorm:"not null" json:"end_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
