package models

import (
	"time"
)

type UserRole string

const (
	RoleDonor UserRole = "Donor"
	RoleNGO   UserRole = "NGO"
	RoleAdmin UserRole = "Admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Profile       *UserProfile   `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Notifications []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// UserProfile carries the role and approval state used for access control.
// NGOs start unapproved; Donors and Admins get access immediately.
type UserProfile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Role       UserRole  `json:"role" gorm:"type:varchar(10);not null;default:'Donor';check:role IN ('Donor','NGO','Admin')"`
	IsApproved bool      `json:"is_approved" gorm:"default:false"`
	IsRejected bool      `json:"is_rejected" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// IsValidRole checks if the profile role is one of the known roles
func (p *UserProfile) IsValidRole() bool {
	switch p.Role {
	case RoleDonor, RoleNGO, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsDonor checks if the profile belongs to a donor
func (p *UserProfile) IsDonor() bool {
	return p.Role == RoleDonor
}

// IsNGO checks if the profile belongs to an NGO
func (p *UserProfile) IsNGO() bool {
	return p.Role == RoleNGO
}

// IsAdmin checks if the profile belongs to an admin
func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccessDashboard reports whether the account may use role-gated
// endpoints. NGOs need admin approval first; a rejected NGO stays blocked
// even though is_approved is false rather than a separate state.
func (p *UserProfile) CanAccessDashboard() bool {
	if p.IsAdmin() {
		return true
	}
	if p.IsNGO() {
		return p.IsApproved && !p.IsRejected
	}
	return true
}
