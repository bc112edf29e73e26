package database

import (
	"log"

	"ledgerly-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models. Failure is non-fatal: the backend also runs
	// against schemas managed out-of-band, possibly older than these models
	// (see DetectCapabilities).
	err = db.AutoMigrate(
		&model.User{},
		&model.Business{},
		&model.BusinessMember{},
		&model.Service{},
		&model.Booking{},
		&model.CalendarEvent{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Transaction{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
