package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TxnIncome  = "income"
	TxnExpense = "expense"
)

// Transaction is a ledger entry. Rows linked to an invoice exist only while
// that invoice is paid and are unique per (business_id, invoice_id) — the
// partial unique index backs the revenue-sync upsert. Unlinked rows come from
// the bank-feed import.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_txn_invoice,where:invoice_id IS NOT NULL" json:"business_id"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_txn_invoice,where:invoice_id IS NOT NULL" json:"invoice_id"`
	Type        string          `gorm:"type:varchar(10);not null;index" json:"type"` // income, expense
	Description string          `gorm:"type:varchar(255)" json:"description"`
	Merchant    string          `gorm:"type:varchar(255)" json:"merchant"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"` // signed: income positive, expense negative
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`

	// Tax tag fields, filled by the deterministic classifier.
	TaxCategory   string  `gorm:"type:varchar(50)" json:"tax_category"`
	TaxTreatment  string  `gorm:"type:varchar(30)" json:"tax_treatment"`
	TaxConfidence float64 `gorm:"type:decimal(4,2)" json:"tax_confidence"`
	TaxReasoning  string  `gorm:"type:text" json:"tax_reasoning"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
