package model

import "time"

// TreeSpecies is a lookup entity referenced by trees.
type TreeSpecies struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:255;not null;index"`
	TimberYielding bool      `json:"timber_yielding" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName keeps the historical table name.
func (TreeSpecies) TableName() string {
	return "tree_species"
}
