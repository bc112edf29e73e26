package repository

import (
	"context"

	"ledgerly-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Service, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.Service, error)
	Update(ctx context.Context, service *model.Service) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	return GetDB(ctx, r.db).Create(service).Error
}

func (r *serviceRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*model.Service, error) {
	var service model.Service
	if err := GetDB(ctx, r.db).First(&service, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.Service, error) {
	var services []model.Service
	if err := GetDB(ctx, r.db).Where("business_id = ?", businessID).Order("name asc").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	return GetDB(ctx, r.db).Save(service).Error
}
