package service

import (
	"context"
	"errors"
	"fmt"

	"ledgerly-backend/internal/model"
	"ledgerly-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBusinessRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
}

type CreateServiceRequest struct {
	BusinessID      string `json:"businessId" binding:"required"`
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
	PriceCents      int64  `json:"priceCents" binding:"min=0"`
}

// --- Interface ---

type BusinessService interface {
	CreateBusiness(ctx context.Context, userID uuid.UUID, req CreateBusinessRequest) (*model.Business, error)
	ListBusinesses(ctx context.Context, userID uuid.UUID) ([]model.Business, error)
	CreateService(ctx context.Context, userID uuid.UUID, req CreateServiceRequest) (*model.Service, error)
	ListServices(ctx context.Context, userID uuid.UUID, businessIDRaw string) ([]model.Service, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	serviceRepo  repository.ServiceRepository
	userRepo     repository.UserRepository
	txManager    repository.TransactionManager
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		userRepo:     userRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

// CreateBusiness mirrors the caller's identity and creates the business in
// one transaction, so a half-created tenant never exists.
func (s *businessService) CreateBusiness(ctx context.Context, userID uuid.UUID, req CreateBusinessRequest) (*model.Business, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}

	business := &model.Business{
		OwnerID:  userID,
		Name:     req.Name,
		Currency: currency,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user := &model.User{ID: userID, Email: req.Email, Name: req.UserName}
		if user.Email == "" {
			user.Email = userID.String() + "@placeholder.ledgerly"
		}
		if err := s.userRepo.Upsert(txCtx, user); err != nil {
			return fmt.Errorf("failed to mirror user: %w", err)
		}
		if err := s.businessRepo.Create(txCtx, business); err != nil {
			return fmt.Errorf("failed to create business: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return business, nil
}

func (s *businessService) ListBusinesses(ctx context.Context, userID uuid.UUID) ([]model.Business, error) {
	return s.businessRepo.ListByUser(ctx, userID)
}

func (s *businessService) CreateService(ctx context.Context, userID uuid.UUID, req CreateServiceRequest) (*model.Service, error) {
	businessID, err := uuid.Parse(req.BusinessID)
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

	service := &model.Service{
		BusinessID:      businessID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          true,
	}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return service, nil
}

func (s *businessService) ListServices(ctx context.Context, userID uuid.UUID, businessIDRaw string) ([]model.Service, error) {
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

	services, err := s.serviceRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.Service{}, nil
		}
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
