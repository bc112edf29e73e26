package service

import (
	"context"
	"fmt"

	"ledgerly-backend/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Action    string `json:"action"`
	EntityID  string `json:"entity_id"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, userID uuid.UUID, businessIDRaw string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo    repository.AuditRepository
	businessRepo repository.BusinessRepository
}

func NewAuditService(auditRepo repository.AuditRepository, businessRepo repository.BusinessRepository) AuditService {
	return &auditService{auditRepo: auditRepo, businessRepo: businessRepo}
}

func (s *auditService) GetAuditLogs(ctx context.Context, userID uuid.UUID, businessIDRaw string, page, limit int) ([]AuditLogResponse, int64, error) {
	businessID, err := uuid.Parse(businessIDRaw)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid businessId", ErrInvalidInput)
	}
	ok, err := s.businessRepo.HasAccess(ctx, businessID, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to verify business access: %w", err)
	}
	if !ok {
		return nil, 0, fmt.Errorf("%w: no access to business", ErrForbidden)
	}

	logs, total, err := s.auditRepo.List(ctx, businessID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		entry := AuditLogResponse{
			ID:        l.ID.String(),
			UserName:  "System",
			Action:    l.Action,
			EntityID:  l.EntityID,
			Details:   l.Details,
			CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if l.UserID != nil {
			entry.UserID = l.UserID.String()
		}
		if l.User != nil {
			entry.UserName = l.User.Name
		}
		res = append(res, entry)
	}
	return res, total, nil
}
