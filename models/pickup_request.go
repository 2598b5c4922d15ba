package models

import "time"

type PickupStatus string

const (
	PickupStatusPending   PickupStatus = "Pending"
	PickupStatusApproved  PickupStatus = "Approved"
	PickupStatusRejected  PickupStatus = "Rejected"
	PickupStatusCompleted PickupStatus = "Completed"
	PickupStatusCancelled PickupStatus = "Cancelled"
)

// PickupRequest is an NGO's claim on a donation. Completing a request
// forces the owning donation to Picked Up (see the completion hook in
// services.PickupService.Transition).
type PickupRequest struct {
	ID              uint         `json:"id" gorm:"primaryKey"`
	DonationID      uint         `json:"donation_id" gorm:"not null;index"`
	RequesterID     *uint        `json:"requester_id" gorm:"index"`
	RequesterName   string       `json:"requester_name" gorm:"size:200;not null"`
	RequesterEmail  string       `json:"requester_email" gorm:"size:255;not null"`
	RequesterPhone  string       `json:"requester_phone" gorm:"size:20"`
	Status          PickupStatus `json:"status" gorm:"type:varchar(20);default:'Pending'"`
	RequestedAt     time.Time    `json:"requested_at" gorm:"autoCreateTime"`
	ScheduledPickup *time.Time   `json:"scheduled_pickup"`
	Notes           string       `json:"notes" gorm:"type:text"`

	// Relations
	Donation  Donation `json:"donation,omitempty" gorm:"foreignKey:DonationID"`
	Requester *User    `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
}

func (PickupRequest) TableName() string {
	return "pickup_requests"
}

// IsTerminal reports whether the request can no longer change state.
func (r *PickupRequest) IsTerminal() bool {
	switch r.Status {
	case PickupStatusRejected, PickupStatusCancelled, PickupStatusCompleted:
		return true
	default:
		return false
	}
}
