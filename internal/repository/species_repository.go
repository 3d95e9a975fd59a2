package repository

import (
	"context"

	"gorm.io/gorm"

	"canopy/internal/model"
)

// SpeciesRepository defines tree species persistence operations.
type SpeciesRepository interface {
	Search(ctx context.Context, query string, limit int) ([]model.TreeSpecies, error)
	FindByID(ctx context.Context, id uint) (*model.TreeSpecies, error)
}

type speciesRepository struct {
	db *gorm.DB
}

// NewSpeciesRepository creates a new species repository.
func NewSpeciesRepository(db *gorm.DB) SpeciesRepository {
	return &speciesRepository{db: db}
}

// Search returns species whose name contains the query, newest first.
func (r *speciesRepository) Search(ctx context.Context, query string, limit int) ([]model.TreeSpecies, error) {
	q := r.db.WithContext(ctx).Model(&model.TreeSpecies{})
	if query != "" {
		q = q.Where("name LIKE ?", "%"+query+"%")
	}

	var species []model.TreeSpecies
	if err := q.Order("id DESC").Limit(limit).Find(&species).Error; err != nil {
		return nil, err
	}
	return species, nil
}

// FindByID finds a species by ID.
func (r *speciesRepository) FindByID(ctx context.Context, id uint) (*model.TreeSpecies, error) {
	var species model.TreeSpecies
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&species).Error; err != nil {
		return nil, err
	}
	return &species, nil
}
