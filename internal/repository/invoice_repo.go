package repository

import (
	"context"

	"ledgerly-backend/internal/database"
	"ledgerly-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceListFilter struct {
	Status string // draft, sent, paid, void or empty for all
	Page   int
	Limit  int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Invoice, error)
	UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status string) error
	// AppendNote adds an audit line to the invoice's free-text notes.
	AppendNote(ctx context.Context, businessID, id uuid.UUID, note string) error
	// AddPayment increments amount_paid. Returns false when the connected
	// schema has no amount_paid column; the payment is then not recorded.
	AddPayment(ctx context.Context, businessID, id uuid.UUID, amount decimal.Decimal) (bool, error)
	Delete(ctx context.Context, businessID, id uuid.UUID) error
	List(ctx context.Context, businessID uuid.UUID, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	CountByPrefix(ctx context.Context, businessID uuid.UUID, prefix string) (int64, error)
}

type invoiceRepository struct {
	db   *gorm.DB
	caps database.Capabilities
}

func NewInvoiceRepository(db *gorm.DB, caps database.Capabilities) InvoiceRepository {
	return &invoiceRepository{db: db, caps: caps}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	tx := GetDB(ctx, r.db)
	if !r.caps.InvoiceAmountPaid {
		tx = tx.Omit("amount_paid")
	}
	return tx.Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Items").First(&invoice, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("status", status).Error
}

func (r *invoiceRepository) AppendNote(ctx context.Context, businessID, id uuid.UUID, note string) error {
	return GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("notes", gorm.Expr("CASE WHEN notes = '' OR notes IS NULL THEN ? ELSE notes || E'\\n' || ? END", note, note)).Error
}

func (r *invoiceRepository) AddPayment(ctx context.Context, businessID, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	if !r.caps.InvoiceAmountPaid {
		return false, nil
	}
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("amount_paid", gorm.Expr("COALESCE(amount_paid, 0) + ?", amount)).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&model.Invoice{}).Error
}

func (r *invoiceRepository) List(ctx context.Context, businessID uuid.UUID, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Invoice{}).Where("business_id = ?", businessID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := db.Preload("Items").Where("business_id = ?", businessID)
	if filter.Status != "" {
		fetchQuery = fetchQuery.Where("status = ?", filter.Status)
	}
	if err := fetchQuery.Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) CountByPrefix(ctx context.Context, businessID uuid.UUID, prefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("business_id = ? AND invoice_no LIKE ?", businessID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
