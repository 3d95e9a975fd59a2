package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"canopy/internal/model"
)

// TreeFilter narrows tree listings. Zero values mean "no filter".
type TreeFilter struct {
	Query       string
	Health      model.TreeHealth
	PlantedFrom *time.Time
	MinHeight   *float64
	MaxHeight   *float64
	Status      model.TreeStatus
}

// TreeRepository defines tree persistence operations.
type TreeRepository interface {
	Create(ctx context.Context, tree *model.Tree) error
	FindByID(ctx context.Context, id uint) (*model.Tree, error)
	UpdateStatus(ctx context.Context, id uint, status model.TreeStatus) error
	ListPending(ctx context.Context) ([]model.Tree, error)
	List(ctx context.Context, filter TreeFilter) ([]model.Tree, error)
	Delete(ctx context.Context, id uint) error
}

type treeRepository struct {
	db *gorm.DB
}

// NewTreeRepository creates a new tree repository.
func NewTreeRepository(db *gorm.DB) TreeRepository {
	return &treeRepository{db: db}
}

// Create inserts a tree row. GORM populates the primary key on the way out.
func (r *treeRepository) Create(ctx context.Context, tree *model.Tree) error {
	return r.db.WithContext(ctx).Create(tree).Error
}

// FindByID finds a tree by ID.
func (r *treeRepository) FindByID(ctx context.Context, id uint) (*model.Tree, error) {
	var tree model.Tree
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tree).Error; err != nil {
		return nil, err
	}
	return &tree, nil
}

// UpdateStatus moves a tree to the given status and refreshes updated_at.
func (r *treeRepository) UpdateStatus(ctx context.Context, id uint, status model.TreeStatus) error {
	return r.db.WithContext(ctx).Model(&model.Tree{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// ListPending returns all PENDING trees joined with their submitting user,
// oldest first. This is the admin review queue.
func (r *treeRepository) ListPending(ctx context.Context) ([]model.Tree, error) {
	var trees []model.Tree
	err := r.db.WithContext(ctx).
		Preload("PlantedBy").
		Preload("Species").
		Where("status = ?", model.StatusPending).
		Order("created_at ASC").
		Find(&trees).Error
	if err != nil {
		return nil, err
	}
	return trees, nil
}

// List returns trees matching the filter, newest first.
func (r *treeRepository) List(ctx context.Context, filter TreeFilter) ([]model.Tree, error) {
	q := r.db.WithContext(ctx).Model(&model.Tree{}).Preload("Species")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		q = q.Where("tree_name LIKE ?", "%"+filter.Query+"%")
	}
	if filter.Health != "" {
		q = q.Where("health = ?", filter.Health)
	}
	if filter.PlantedFrom != nil {
		q = q.Where("planted_on >= ?", filter.PlantedFrom)
	}
	if filter.MinHeight != nil {
		q = q.Where("height >= ?", *filter.MinHeight)
	}
	if filter.MaxHeight != nil {
		q = q.Where("height <= ?", *filter.MaxHeight)
	}

	var trees []model.Tree
	if err := q.Order("created_at DESC").Find(&trees).Error; err != nil {
		return nil, err
	}
	return trees, nil
}

// Delete removes a tree row.
func (r *treeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Tree{}, id).Error
}
