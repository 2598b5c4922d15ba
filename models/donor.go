package models

import "time"

// Donor represents an individual or organization offering surplus food.
type Donor struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     *uint     `json:"user_id" gorm:"uniqueIndex"`
	Name       string    `json:"name" gorm:"size:200;not null"`
	Email      string    `json:"email" gorm:"size:255;not null;index"`
	Phone      string    `json:"phone" gorm:"size:20"`
	Address    string    `json:"address" gorm:"type:text"`
	City       string    `json:"city" gorm:"size:100;index"`
	IsVerified bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relations
	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Donations []Donation `json:"donations,omitempty" gorm:"foreignKey:DonorID"`
}

func (Donor) TableName() string {
	return "donors"
}
