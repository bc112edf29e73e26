package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateBooking     = "CREATE_BOOKING"
	ActionRescheduleBooking = "RESCHEDULE_BOOKING"
	ActionCancelBooking     = "CANCEL_BOOKING"
	ActionDeleteBooking     = "DELETE_BOOKING"
	ActionMarkInvoicePaid   = "MARK_INVOICE_PAID"
	ActionMarkInvoiceUnpaid = "MARK_INVOICE_UNPAID"
	ActionRecordPayment     = "RECORD_PAYMENT"
	ActionImportBankFeed    = "IMPORT_BANK_FEED"
)

// AuditLog tracks Who, What, and When for booking and invoice lifecycle changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID uuid.UUID  `gorm:"type:uuid;not null;index" json:"business_id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nullable for system-initiated writes
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
