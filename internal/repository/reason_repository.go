package repository

import (
	"context"

	"gorm.io/gorm"

	"canopy/internal/model"
)

// ReasonRepository defines planting reason lookup operations.
type ReasonRepository interface {
	List(ctx context.Context) ([]model.PlantingReason, error)
	FindByID(ctx context.Context, id uint) (*model.PlantingReason, error)
}

type reasonRepository struct {
	db *gorm.DB
}

// NewReasonRepository creates a new planting reason repository.
func NewReasonRepository(db *gorm.DB) ReasonRepository {
	return &reasonRepository{db: db}
}

// List returns all planting reasons.
func (r *reasonRepository) List(ctx context.Context) ([]model.PlantingReason, error) {
	var reasons []model.PlantingReason
	if err := r.db.WithContext(ctx).Find(&reasons).Error; err != nil {
		return nil, err
	}
	return reasons, nil
}

// FindByID finds a planting reason by ID.
func (r *reasonRepository) FindByID(ctx context.Context, id uint) (*model.PlantingReason, error) {
	var reason model.PlantingReason
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reason).Error; err != nil {
		return nil, err
	}
	return &reason, nil
}
