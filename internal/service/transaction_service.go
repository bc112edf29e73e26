package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"ledgerly-backend/internal/model"
	"ledgerly-backend/internal/repository"
	"ledgerly-backend/pkg/taxtag"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type ImportRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  []ImportRowError `json:"skipped,omitempty"`
}

// --- Interface ---

type TransactionService interface {
	RevenueSyncer
	ImportBankFeed(ctx context.Context, userID uuid.UUID, businessIDRaw string, r io.Reader) (ImportResult, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, businessIDRaw string, filter repository.TransactionListFilter) ([]model.Transaction, int64, error)
}

type transactionService struct {
	txnRepo      repository.TransactionRepository
	businessRepo repository.BusinessRepository
	auditRepo    repository.AuditRepository
}

func NewTransactionService(
	txnRepo repository.TransactionRepository,
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
) TransactionService {
	return &transactionService{
		txnRepo:      txnRepo,
		businessRepo: businessRepo,
		auditRepo:    auditRepo,
	}
}

// --- Revenue sync ---

// UpsertRevenueForInvoice recognizes a paid invoice's total as revenue.
// Keyed by (business_id, invoice_id): repeated calls update the existing row.
func (s *transactionService) UpsertRevenueForInvoice(ctx context.Context, invoice *model.Invoice) error {
	description := "Invoice " + invoice.InvoiceNo
	tag := taxtag.Classify(taxtag.Input{
		Description: description,
		Merchant:    invoice.ClientName,
		Amount:      invoice.Total,
	})

	txn := &model.Transaction{
		BusinessID:    invoice.BusinessID,
		InvoiceID:     &invoice.ID,
		Type:          model.TxnIncome,
		Description:   description,
		Merchant:      invoice.ClientName,
		Amount:        invoice.Total,
		Date:          time.Now().UTC(),
		TaxCategory:   tag.TaxCategory,
		TaxTreatment:  tag.TaxTreatment,
		TaxConfidence: tag.ConfidenceScore,
		TaxReasoning:  tag.Reasoning,
	}
	return s.txnRepo.UpsertByInvoice(ctx, txn)
}

// DeleteRevenueForInvoice removes the invoice's revenue transaction, if any.
func (s *transactionService) DeleteRevenueForInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) error {
	return s.txnRepo.DeleteByInvoiceID(ctx, businessID, invoiceID)
}

// --- Bank feed import ---

// ImportBankFeed parses a bank-feed CSV (date, description, merchant,
// category, amount) and creates one classified transaction per row. The
// import is row-wise best-effort: malformed rows are reported back and
// skipped, valid rows commit.
func (s *transactionService) ImportBankFeed(ctx context.Context, userID uuid.UUID, businessIDRaw string, r io.Reader) (ImportResult, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return ImportResult{}, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := ImportResult{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped = append(result.Skipped, ImportRowError{Line: line, Reason: "malformed CSV row"})
			continue
		}
		if line == 1 && isHeaderRow(record) {
			continue
		}
		if len(record) < 5 {
			result.Skipped = append(result.Skipped, ImportRowError{Line: line, Reason: "expected 5 columns: date, description, merchant, category, amount"})
			continue
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
		if err != nil {
			result.Skipped = append(result.Skipped, ImportRowError{Line: line, Reason: "invalid date, expected YYYY-MM-DD"})
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[4]))
		if err != nil {
			result.Skipped = append(result.Skipped, ImportRowError{Line: line, Reason: "invalid amount"})
			continue
		}

		description := strings.TrimSpace(record[1])
		merchant := strings.TrimSpace(record[2])
		category := strings.TrimSpace(record[3])

		txnType := model.TxnIncome
		if amount.IsNegative() {
			txnType = model.TxnExpense
		}

		tag := taxtag.Classify(taxtag.Input{
			Description: description,
			Merchant:    merchant,
			Category:    category,
			Amount:      amount,
		})

		txn := &model.Transaction{
			BusinessID:    businessID,
			Type:          txnType,
			Description:   description,
			Merchant:      merchant,
			Category:      category,
			Amount:        amount,
			Date:          date,
			TaxCategory:   tag.TaxCategory,
			TaxTreatment:  tag.TaxTreatment,
			TaxConfidence: tag.ConfidenceScore,
			TaxReasoning:  tag.Reasoning,
		}
		if err := s.txnRepo.Create(ctx, txn); err != nil {
			result.Skipped = append(result.Skipped, ImportRowError{Line: line, Reason: "insert failed: " + err.Error()})
			continue
		}
		result.Imported++
	}

	s.writeAudit(ctx, businessID, userID, model.ActionImportBankFeed, "", result)
	return result, nil
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "date"
}

// --- List ---

func (s *transactionService) ListTransactions(ctx context.Context, userID uuid.UUID, businessIDRaw string, filter repository.TransactionListFilter) ([]model.Transaction, int64, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	if err := s.requireAccess(ctx, businessID, userID); err != nil {
		return nil, 0, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.txnRepo.List(ctx, businessID, filter)
}

// --- Helpers ---

func (s *transactionService) requireAccess(ctx context.Context, businessID, userID uuid.UUID) error {
	ok, err := s.businessRepo.HasAccess(ctx, businessID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify business access: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: no access to business", ErrForbidden)
	}
	return nil
}

func (s *transactionService) writeAudit(ctx context.Context, businessID, userID uuid.UUID, action, entityID string, details interface{}) {
	detailsJSON := "{}"
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}
	entry := &model.AuditLog{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		Details:    detailsJSON,
	}
	if err := s.auditRepo.Write(ctx, entry); err != nil {
		log.Printf("WARNING: failed to write audit log (%s): %v", action, err)
	}
}
