package model

import "time"

// RoleName enumerates the known role names.
type RoleName string

const (
	RoleAdmin            RoleName = "ADMIN"
	RoleEnvironmentalist RoleName = "ENVIRONMENTALIST"
	RoleUser             RoleName = "USER"
)

// IDs of the seeded static roles.
const (
	RoleIDAdmin            uint = 1
	RoleIDEnvironmentalist uint = 2
	RoleIDUser             uint = 3
)

// Role maps a small integer to a role name. Static reference data.
type Role struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name RoleName `json:"name" gorm:"type:varchar(20);uniqueIndex;not null"`
}

// User represents a registered member of the planting community.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RoleID       uint      `json:"role_id" gorm:"not null;default:3;index"`
	FirstName    string    `json:"first_name" gorm:"size:255;not null"`
	LastName     string    `json:"last_name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Role Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleIDAdmin
}

// CanViewReports reports whether the user may access reporting endpoints.
func (u *User) CanViewReports() bool {
	return u.RoleID == RoleIDAdmin || u.RoleID == RoleIDEnvironmentalist
}
