package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ledgerly-backend/internal/model"
	"ledgerly-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransactionRepo mirrors the partial unique index on
// (business_id, invoice_id): upserts for the same invoice replace the row.
type fakeTransactionRepo struct {
	rows []model.Transaction
}

func (r *fakeTransactionRepo) Create(_ context.Context, txn *model.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	r.rows = append(r.rows, *txn)
	return nil
}

func (r *fakeTransactionRepo) UpsertByInvoice(_ context.Context, txn *model.Transaction) error {
	for i, row := range r.rows {
		if row.InvoiceID != nil && txn.InvoiceID != nil &&
			row.BusinessID == txn.BusinessID && *row.InvoiceID == *txn.InvoiceID {
			txn.ID = row.ID
			r.rows[i] = *txn
			return nil
		}
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	r.rows = append(r.rows, *txn)
	return nil
}

func (r *fakeTransactionRepo) DeleteByInvoiceID(_ context.Context, businessID, invoiceID uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.BusinessID == businessID && row.InvoiceID != nil && *row.InvoiceID == invoiceID {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return nil
}

func (r *fakeTransactionRepo) List(_ context.Context, businessID uuid.UUID, filter repository.TransactionListFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, row := range r.rows {
		if row.BusinessID != businessID {
			continue
		}
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

type txnFixture struct {
	svc        TransactionService
	txnRepo    *fakeTransactionRepo
	userID     uuid.UUID
	businessID uuid.UUID
}

func newTxnFixture() *txnFixture {
	f := &txnFixture{
		txnRepo:    &fakeTransactionRepo{},
		userID:     uuid.New(),
		businessID: uuid.New(),
	}
	businessRepo := newFakeBusinessRepo()
	businessRepo.access[f.businessID] = true
	f.svc = NewTransactionService(f.txnRepo, businessRepo, &fakeAuditRepo{})
	return f
}

func TestUpsertRevenueForInvoiceIsIdempotent(t *testing.T) {
	f := newTxnFixture()
	ctx := context.Background()

	invoice := &model.Invoice{
		ID:         uuid.New(),
		BusinessID: f.businessID,
		InvoiceNo:  "INV-20260401-00001",
		ClientName: "Jane Doe",
		Status:     model.InvoicePaid,
		Total:      decimal.NewFromInt(45),
	}

	require.NoError(t, f.svc.UpsertRevenueForInvoice(ctx, invoice))
	require.NoError(t, f.svc.UpsertRevenueForInvoice(ctx, invoice))
	require.NoError(t, f.svc.UpsertRevenueForInvoice(ctx, invoice))

	require.Len(t, f.txnRepo.rows, 1, "repeated upserts must not duplicate the revenue row")
	row := f.txnRepo.rows[0]
	assert.Equal(t, model.TxnIncome, row.Type)
	assert.Equal(t, "Invoice INV-20260401-00001", row.Description)
	assert.True(t, decimal.NewFromInt(45).Equal(row.Amount))
	require.NotNil(t, row.InvoiceID)
	assert.Equal(t, invoice.ID, *row.InvoiceID)

	// The synced row carries a tax tag.
	assert.Equal(t, "gross_receipts", row.TaxCategory)
	assert.Equal(t, "taxable", row.TaxTreatment)
}

func TestUpsertRevenueTracksChangedTotal(t *testing.T) {
	f := newTxnFixture()
	ctx := context.Background()

	invoice := &model.Invoice{
		ID:         uuid.New(),
		BusinessID: f.businessID,
		InvoiceNo:  "INV-20260401-00001",
		ClientName: "Jane Doe",
		Total:      decimal.NewFromInt(45),
	}
	require.NoError(t, f.svc.UpsertRevenueForInvoice(ctx, invoice))

	invoice.Total = decimal.NewFromInt(60)
	require.NoError(t, f.svc.UpsertRevenueForInvoice(ctx, invoice))

	require.Len(t, f.txnRepo.rows, 1)
	assert.True(t, decimal.NewFromInt(60).Equal(f.txnRepo.rows[0].Amount))
}

func TestDeleteRevenueForInvoice(t *testing.T) {
	f := newTxnFixture()
	ctx := context.Background()

	invoice := &model.Invoice{
		ID:         uuid.New(),
		BusinessID: f.businessID,
		InvoiceNo:  "INV-20260401-00001",
		Total:      decimal.NewFromInt(45),
	}
	require.NoError(t, f.svc.UpsertRevenueForInvoice(ctx, invoice))
	require.Len(t, f.txnRepo.rows, 1)

	require.NoError(t, f.svc.DeleteRevenueForInvoice(ctx, f.businessID, invoice.ID))
	assert.Empty(t, f.txnRepo.rows)

	// Deleting again is a no-op.
	assert.NoError(t, f.svc.DeleteRevenueForInvoice(ctx, f.businessID, invoice.ID))
}

func TestImportBankFeed(t *testing.T) {
	f := newTxnFixture()
	ctx := context.Background()

	feed := strings.Join([]string{
		"date,description,merchant,category,amount",
		"2026-03-01,Stripe payout,Stripe,,850.00",
		"2026-03-02,Team lunch,Chipotle,meals,-64.20",
		"2026-03-03,Sales Tax Payment,State of CA,tax,-120.00",
		"not-a-date,Broken row,,,10.00",
		"2026-03-04,Bad amount,,,ten dollars",
		"2026-03-05,Short row,10.00",
	}, "\n")

	result, err := f.svc.ImportBankFeed(ctx, f.userID, f.businessID.String(), strings.NewReader(feed))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Imported)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, 5, result.Skipped[0].Line)
	assert.Equal(t, 6, result.Skipped[1].Line)
	assert.Equal(t, 7, result.Skipped[2].Line)

	require.Len(t, f.txnRepo.rows, 3)

	payout := f.txnRepo.rows[0]
	assert.Equal(t, model.TxnIncome, payout.Type)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), payout.Date)
	assert.Equal(t, "gross_receipts", payout.TaxCategory)
	assert.Nil(t, payout.InvoiceID, "imported rows are not linked to invoices")

	lunch := f.txnRepo.rows[1]
	assert.Equal(t, model.TxnExpense, lunch.Type)
	assert.Equal(t, "meals_entertainment", lunch.TaxCategory)
	assert.Equal(t, "partial_50", lunch.TaxTreatment)

	salesTax := f.txnRepo.rows[2]
	assert.Equal(t, "sales_tax_paid", salesTax.TaxCategory)
	assert.Equal(t, "non_deductible", salesTax.TaxTreatment)
}

func TestImportBankFeedWithoutHeader(t *testing.T) {
	f := newTxnFixture()

	feed := "2026-03-01,Stripe payout,Stripe,,850.00\n"
	result, err := f.svc.ImportBankFeed(context.Background(), f.userID, f.businessID.String(), strings.NewReader(feed))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Skipped)
}

func TestImportBankFeedForbidden(t *testing.T) {
	f := newTxnFixture()
	_, err := f.svc.ImportBankFeed(context.Background(), f.userID, uuid.New().String(), strings.NewReader("date\n"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListTransactionsFiltersByType(t *testing.T) {
	f := newTxnFixture()
	ctx := context.Background()

	feed := strings.Join([]string{
		"2026-03-01,Stripe payout,Stripe,,850.00",
		"2026-03-02,Team lunch,Chipotle,meals,-64.20",
	}, "\n")
	_, err := f.svc.ImportBankFeed(ctx, f.userID, f.businessID.String(), strings.NewReader(feed))
	require.NoError(t, err)

	income, total, err := f.svc.ListTransactions(ctx, f.userID, f.businessID.String(),
		repository.TransactionListFilter{Type: model.TxnIncome})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, income, 1)
	assert.Equal(t, "Stripe payout", income[0].Description)
}
