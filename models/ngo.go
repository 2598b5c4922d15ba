package models

import "time"

// NGO represents an organization receiving donated food on behalf of
// beneficiaries. Coordinates are optional; the matching engine only
// considers requirements whose NGO has them set.
type NGO struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserID             *uint     `json:"user_id" gorm:"uniqueIndex"`
	Name               string    `json:"name" gorm:"size:200;not null"`
	ContactPerson      string    `json:"contact_person" gorm:"size:200"`
	Email              string    `json:"email" gorm:"size:255;not null;index"`
	Phone              string    `json:"phone" gorm:"size:20"`
	Address            string    `json:"address" gorm:"type:text"`
	City               string    `json:"city" gorm:"size:100;index"`
	Latitude           *float64  `json:"latitude"`
	Longitude          *float64  `json:"longitude"`
	IsVerified         bool      `json:"is_verified" gorm:"default:false"`
	RegistrationNumber string    `json:"registration_number" gorm:"size:100"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relations
	User         *User                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Requirements []NGOFoodRequirement `json:"requirements,omitempty" gorm:"foreignKey:NGOID"`
}

func (NGO) TableName() string {
	return "ngos"
}
