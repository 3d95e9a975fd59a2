package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"canopy/internal/model"
)

// LabelCount is a generic grouped-count row.
type LabelCount struct {
	Label string
	Count int64
}

// ContributionRow is one leaderboard entry.
type ContributionRow struct {
	FirstName string
	LastName  string
	Count     int64
}

// GrowthRow holds per-age-bucket aggregates.
type GrowthRow struct {
	Count     int64
	AvgHeight float64
}

// ReportRepository runs aggregate queries over approved trees. Reporting
// bypasses the entity repositories and hits the schema directly.
type ReportRepository interface {
	HealthDistribution(ctx context.Context, since *time.Time) ([]LabelCount, error)
	SpeciesDistribution(ctx context.Context, since *time.Time) ([]LabelCount, error)
	PlantingActivity(ctx context.Context, since *time.Time) ([]LabelCount, error)
	UserContributions(ctx context.Context, since *time.Time, limit int) ([]ContributionRow, error)
	GrowthByAge(ctx context.Context, since *time.Time, minAge, maxAge int) (GrowthRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// approved scopes a query to approved trees within the optional window.
func (r *reportRepository) approved(ctx context.Context, since *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Tree{}).Where("status = ?", model.StatusApproved)
	if since != nil {
		q = q.Where("planted_on >= ?", since)
	}
	return q
}

// HealthDistribution counts approved trees grouped by health rating.
func (r *reportRepository) HealthDistribution(ctx context.Context, since *time.Time) ([]LabelCount, error) {
	var rows []LabelCount
	err := r.approved(ctx, since).
		Select("health AS label, COUNT(*) AS count").
		Group("health").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SpeciesDistribution counts approved trees grouped by species name,
// most planted first.
func (r *reportRepository) SpeciesDistribution(ctx context.Context, since *time.Time) ([]LabelCount, error) {
	var rows []LabelCount
	err := r.approved(ctx, since).
		Select("tree_species.name AS label, COUNT(*) AS count").
		Joins("INNER JOIN tree_species ON tree_species.id = trees.tree_species").
		Group("tree_species.id, tree_species.name").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PlantingActivity counts approved trees grouped by planting month, ascending.
func (r *reportRepository) PlantingActivity(ctx context.Context, since *time.Time) ([]LabelCount, error) {
	var rows []LabelCount
	err := r.approved(ctx, since).
		Select("DATE_FORMAT(planted_on, '%Y-%m-01') AS label, COUNT(*) AS count").
		Group("label").
		Order("label ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UserContributions returns the top contributors of approved trees.
func (r *reportRepository) UserContributions(ctx context.Context, since *time.Time, limit int) ([]ContributionRow, error) {
	var rows []ContributionRow
	err := r.approved(ctx, since).
		Select("users.first_name AS first_name, users.last_name AS last_name, COUNT(*) AS count").
		Joins("INNER JOIN users ON users.id = trees.planted_by").
		Group("trees.planted_by, users.first_name, users.last_name").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GrowthByAge aggregates count and average height for one age bucket.
func (r *reportRepository) GrowthByAge(ctx context.Context, since *time.Time, minAge, maxAge int) (GrowthRow, error) {
	var row GrowthRow
	q := r.approved(ctx, since).
		Select("COUNT(*) AS count, COALESCE(AVG(height), 0) AS avg_height").
		Where("age >= ?", minAge)
	if maxAge >= 0 {
		q = q.Where("age <= ?", maxAge)
	}
	if err := q.Scan(&row).Error; err != nil {
		return GrowthRow{}, err
	}
	return row, nil
}
