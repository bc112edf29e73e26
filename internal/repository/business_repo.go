package repository

import (
	"context"

	"ledgerly-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Business, error)
	// HasAccess reports whether the user owns or is a member of the business.
	HasAccess(ctx context.Context, businessID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, member *model.BusinessMember) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *model.Business) error {
	return GetDB(ctx, r.db).Create(business).Error
}

func (r *businessRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := GetDB(ctx, r.db).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Business, error) {
	var businesses []model.Business
	err := GetDB(ctx, r.db).
		Where("owner_id = ? OR id IN (SELECT business_id FROM business_members WHERE user_id = ?)", userID, userID).
		Order("created_at asc").
		Find(&businesses).Error
	if err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) HasAccess(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Business{}).
		Where("id = ? AND (owner_id = ? OR id IN (SELECT business_id FROM business_members WHERE business_id = ? AND user_id = ?))",
			businessID, userID, businessID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *businessRepository) AddMember(ctx context.Context, member *model.BusinessMember) error {
	return GetDB(ctx, r.db).Create(member).Error
}
