package model

import "time"

// UserToken holds a device push token registered by a client. At most one row
// per user is kept; registration upserts in place.
type UserToken struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index;constraint:OnDelete:CASCADE"`
	FCMToken    string    `json:"fcm_token" gorm:"type:text;not null"`
	DeviceInfo  string    `json:"device_info" gorm:"size:255"`
	LastUpdated time.Time `json:"last_updated"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}
