package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
	InvoiceVoid  = "void"
)

// Invoice is a billing document, at most one per booking. Revenue is only
// recognized (as a transaction row) while the invoice is paid.
type Invoice struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_no" json:"business_id"`
	InvoiceNo  string           `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoice_no" json:"invoice_no"`
	ClientName string           `gorm:"type:varchar(255);not null" json:"client_name"`
	Status     string           `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Subtotal   decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Tax        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"tax"`
	Total      decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total"`
	AmountPaid *decimal.Decimal `gorm:"type:decimal(18,4)" json:"amount_paid"` // optional column on older schemas
	Notes      string           `gorm:"type:text" json:"notes"`
	BookingID  *uuid.UUID       `gorm:"type:uuid;index" json:"booking_id"`
	Items      []InvoiceItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
