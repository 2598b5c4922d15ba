package models

import "time"

type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "Available"
	DonationStatusReserved  DonationStatus = "Reserved"
	DonationStatusPickedUp  DonationStatus = "Picked Up"
	DonationStatusExpired   DonationStatus = "Expired"
	DonationStatusCancelled DonationStatus = "Cancelled"
)

// Donation is a single offered batch of food. Status moves
// Available -> Reserved -> Picked Up, with Expired and Cancelled as
// terminal side-exits.
type Donation struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	DonorID         *uint          `json:"donor_id" gorm:"index"`
	NGOID           *uint          `json:"ngo_id" gorm:"index"`
	Title           string         `json:"title" gorm:"size:200;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Quantity        int            `json:"quantity" gorm:"not null;check:quantity > 0"`
	Unit            string         `json:"unit" gorm:"size:50;default:'servings'"` // e.g. servings, kg, pieces
	Location        string         `json:"location" gorm:"size:200;index"`
	Latitude        *float64       `json:"latitude"`
	Longitude       *float64       `json:"longitude"`
	ExpiryDate      time.Time      `json:"expiry_date" gorm:"not null;index:idx_donations_status_expiry,priority:2"`
	Status          DonationStatus `json:"status" gorm:"type:varchar(20);default:'Available';index:idx_donations_status_expiry,priority:1"`
	NutritionalInfo JSONMap        `json:"nutritional_info" gorm:"type:text"`
	PickupBy        *time.Time     `json:"pickup_by"` // preferred pickup deadline
	ImageURL        string         `json:"image_url" gorm:"size:255"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Donor          *Donor          `json:"donor,omitempty" gorm:"foreignKey:DonorID"`
	NGO            *NGO            `json:"ngo,omitempty" gorm:"foreignKey:NGOID"`
	PickupRequests []PickupRequest `json:"pickup_requests,omitempty" gorm:"foreignKey:DonationID"`
}

func (Donation) TableName() string {
	return "donations"
}

// HasCoordinates reports whether the donation carries a usable lat/lng pair.
func (d *Donation) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}
