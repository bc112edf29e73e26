package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable catalog entry (e.g. "60 min consultation").
// Duration drives the booking window; price seeds the auto-created invoice.
type Service struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID      uuid.UUID `gorm:"type:uuid;not null;index" json:"business_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	PriceCents      int64     `gorm:"not null;default:0" json:"price_cents"`
	Active          bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
