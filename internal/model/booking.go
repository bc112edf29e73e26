package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus enum constants
const (
	BookingScheduled = "scheduled"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking represents a scheduled appointment for a service. At most one
// non-cancelled booking may overlap [start_at, end_at) per business; this is
// enforced by a query-time check, not a database constraint, so concurrent
// creates can race (see booking service).
type Booking struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"business_id"`
	ServiceID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"service_id"`
	Service       *Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	CustomerName  string     `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string     `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerPhone string     `gorm:"type:varchar(30)" json:"customer_phone"`
	StartAt       time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt         time.Time  `gorm:"not null;index" json:"end_at"`
	Status        string     `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	PriceCents    int64      `gorm:"default:0" json:"price_cents"` // optional column on older schemas
	InvoiceID     *uuid.UUID `gorm:"type:uuid;index" json:"invoice_id"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
