package models

import "time"

// Notification types
const (
	NotificationNGOApproval       = "ngo_approval"
	NotificationNGORejection      = "ngo_rejection"
	NotificationFoodShortage      = "food_shortage"
	NotificationDonationConfirmed = "donation_confirmed"
	NotificationDonationAccepted  = "donation_accepted"
	NotificationPickupScheduled   = "pickup_scheduled"
)

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Type      string    `json:"type" gorm:"size:50;not null"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	Metadata  JSONMap   `json:"metadata" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}
