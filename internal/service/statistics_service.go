package service

import (
	"context"
	"fmt"
	"time"

	"ledgerly-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type SummaryDataPoint struct {
	Period  string `json:"period"` // YYYY-MM
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

// --- Interface ---

type StatisticsService interface {
	GetSummary(ctx context.Context, userID uuid.UUID, businessIDRaw string, startDate, endDate time.Time) ([]SummaryDataPoint, error)
}

type statisticsService struct {
	db           *gorm.DB
	businessRepo repository.BusinessRepository
}

func NewStatisticsService(db *gorm.DB, businessRepo repository.BusinessRepository) StatisticsService {
	return &statisticsService{db: db, businessRepo: businessRepo}
}

// GetSummary aggregates signed transaction amounts into monthly income,
// expense, and net figures for the window.
func (s *statisticsService) GetSummary(ctx context.Context, userID uuid.UUID, businessIDRaw string, startDate, endDate time.Time) ([]SummaryDataPoint, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	ok, err := s.businessRepo.HasAccess(ctx, businessID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify business access: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no access to business", ErrForbidden)
	}

	query := `
		SELECT
			TO_CHAR(DATE_TRUNC('month', t.date), 'YYYY-MM') AS period,
			COALESCE(SUM(CASE WHEN t.amount > 0 THEN t.amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN t.amount < 0 THEN -t.amount ELSE 0 END), 0) AS expense
		FROM transactions t
		WHERE t.business_id = $1
		  AND t.date >= $2
		  AND t.date <= $3
		GROUP BY DATE_TRUNC('month', t.date)
		ORDER BY period
	`

	type rawResult struct {
		Period  string          `gorm:"column:period"`
		Income  decimal.Decimal `gorm:"column:income"`
		Expense decimal.Decimal `gorm:"column:expense"`
	}

	var rows []rawResult
	if err := s.db.WithContext(ctx).Raw(query, businessID, startDate, endDate).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}

	points := make([]SummaryDataPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, SummaryDataPoint{
			Period:  row.Period,
			Income:  row.Income.StringFixed(2),
			Expense: row.Expense.StringFixed(2),
			Net:     row.Income.Sub(row.Expense).StringFixed(2),
		})
	}
	return points, nil
}
