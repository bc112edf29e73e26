package repository

import (
	"context"

	"ledgerly-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionListFilter struct {
	Type  string // income, expense or empty for all
	Page  int
	Limit int
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	// UpsertByInvoice inserts or updates the single transaction row keyed by
	// (business_id, invoice_id); repeated calls for the same invoice update
	// rather than duplicate.
	UpsertByInvoice(ctx context.Context, txn *model.Transaction) error
	// DeleteByInvoiceID removes any transactions linked to the invoice.
	// Deleting when none exist is a no-op.
	DeleteByInvoiceID(ctx context.Context, businessID, invoiceID uuid.UUID) error
	List(ctx context.Context, businessID uuid.UUID, filter TransactionListFilter) ([]model.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return GetDB(ctx, r.db).Create(txn).Error
}

func (r *transactionRepository) UpsertByInvoice(ctx context.Context, txn *model.Transaction) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_id"}, {Name: "invoice_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "invoice_id IS NOT NULL"},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"amount", "date", "description", "type",
			"tax_category", "tax_treatment", "tax_confidence", "tax_reasoning",
			"updated_at",
		}),
	}).Create(txn).Error
}

func (r *transactionRepository) DeleteByInvoiceID(ctx context.Context, businessID, invoiceID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("business_id = ? AND invoice_id = ?", businessID, invoiceID).
		Delete(&model.Transaction{}).Error
}

func (r *transactionRepository) List(ctx context.Context, businessID uuid.UUID, filter TransactionListFilter) ([]model.Transaction, int64, error) {
	var txns []model.Transaction
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Transaction{}).Where("business_id = ?", businessID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := db.Where("business_id = ?", businessID)
	if filter.Type != "" {
		fetchQuery = fetchQuery.Where("type = ?", filter.Type)
	}
	if err := fetchQuery.Order("date desc, created_at desc").Offset(offset).Limit(filter.Limit).Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}
