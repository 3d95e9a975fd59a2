package model

import "time"

// PlantingReason is a lookup entity for why a tree was planted.
type PlantingReason struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Reason    string    `json:"reason" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
}
