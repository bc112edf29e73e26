package database

import (
	"log"

	"ledgerly-backend/internal/model"

	"gorm.io/gorm"
)

// Capabilities records which optional columns the connected schema carries.
// Older deployments predate bookings.price_cents and invoices.amount_paid;
// write shapes branch on these flags instead of pattern-matching "column does
// not exist" errors per request.
type Capabilities struct {
	BookingPriceCents bool
	InvoiceAmountPaid bool
}

// DetectCapabilities probes the schema once at startup.
func DetectCapabilities(db *gorm.DB) Capabilities {
	m := db.Migrator()
	caps := Capabilities{
		BookingPriceCents: m.HasColumn(&model.Booking{}, "price_cents"),
		InvoiceAmountPaid: m.HasColumn(&model.Invoice{}, "amount_paid"),
	}
	if !caps.BookingPriceCents {
		log.Println("WARNING: bookings.price_cents missing; booking inserts will omit it")
	}
	if !caps.InvoiceAmountPaid {
		log.Println("WARNING: invoices.amount_paid missing; partial payments will not be recorded")
	}
	return caps
}
