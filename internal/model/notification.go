package model

import "time"

// Notification type tags.
const (
	NotificationStatusChange = "status_change"
)

// Notification is a persisted message to a user about one of their trees.
// Rows are created as a side effect of verification and never updated.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;constraint:OnDelete:CASCADE"`
	TreeID    uint      `json:"tree_id" gorm:"not null;index;constraint:OnDelete:CASCADE"`
	Type      string    `json:"type" gorm:"size:50;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
	Tree Tree `json:"-" gorm:"foreignKey:TreeID"`
}
