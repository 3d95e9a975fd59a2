package model

import "time"

// TreeHealth is a coarse vitality rating, distinct from approval status.
type TreeHealth string

const (
	HealthPoor      TreeHealth = "POOR"
	HealthFair      TreeHealth = "FAIR"
	HealthGood      TreeHealth = "GOOD"
	HealthExcellent TreeHealth = "EXCELLENT"
)

// TreeStatus is the verification state of a submission.
// PENDING is the initial state; APPROVED and DECLINED are terminal.
type TreeStatus string

const (
	StatusPending  TreeStatus = "PENDING"
	StatusApproved TreeStatus = "APPROVED"
	StatusDeclined TreeStatus = "DECLINED"
)

// PlanterType records whether a tree was planted by an individual or an organization.
type PlanterType string

const (
	PlanterIndividual   PlanterType = "INDIVIDUAL"
	PlanterOrganization PlanterType = "ORGANIZATION"
)

// Tree is the central entity of the registry. A tree is created in PENDING
// status by its submitting user and moved to APPROVED or DECLINED by an
// administrator during verification.
type Tree struct {
	ID               uint        `json:"id" gorm:"primaryKey"`
	Name             string      `json:"name" gorm:"column:tree_name;size:255;not null;index"`
	SpeciesID        *uint       `json:"species_id" gorm:"column:tree_species;index"`
	Height           float64     `json:"height"`
	Health           TreeHealth  `json:"health" gorm:"type:varchar(20);not null;default:'EXCELLENT';index"`
	Status           TreeStatus  `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Age              int         `json:"age"`
	Image            string      `json:"image" gorm:"type:text"`
	Lat              float64     `json:"lat"`
	Lng              float64     `json:"lng"`
	PlantedByID      *uint       `json:"planted_by_id" gorm:"column:planted_by;index"`
	PlantedOn        time.Time   `json:"planted_on" gorm:"type:date"`
	PlanterType      PlanterType `json:"planter_type" gorm:"type:varchar(20);not null;default:'INDIVIDUAL'"`
	OrganizationName *string     `json:"organization_name,omitempty" gorm:"size:255"`
	PlantingReasonID *uint       `json:"planting_reason_id,omitempty"`
	Hashtags         *string     `json:"hashtags,omitempty" gorm:"type:text"`
	Quantity         int         `json:"quantity" gorm:"not null;default:1"`
	AreaHectares     *float64    `json:"area_hectares,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	// Relations
	Species        *TreeSpecies    `json:"species,omitempty" gorm:"foreignKey:SpeciesID"`
	PlantedBy      *User           `json:"planted_by,omitempty" gorm:"foreignKey:PlantedByID"`
	PlantingReason *PlantingReason `json:"planting_reason,omitempty" gorm:"foreignKey:PlantingReasonID"`
}
