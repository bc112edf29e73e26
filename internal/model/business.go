package model

import (
	"time"

	"github.com/google/uuid"
)

// Business is the tenancy unit: every booking, invoice, and transaction is
// scoped to exactly one business.
type Business struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"` // identity provider user id
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Currency  string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessMember grants a non-owner user access to a business.
type BusinessMember struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index:idx_business_member,unique" json:"business_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_business_member,unique" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
