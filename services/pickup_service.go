package services

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"food-donation-server/models"
)

// PickupService owns pickup-request state transitions and the post-commit
// hook that keeps donation status in sync with completed pickups.
type PickupService struct {
	db *gorm.DB
}

func NewPickupService(db *gorm.DB) *PickupService {
	return &PickupService{db: db}
}

var ErrPickupTerminal = errors.New("pickup request is already in a terminal state")

// Transition moves a pickup request to the given status and runs the
// completion hook when the new status is Completed. Pending -> Completed is
// allowed directly; nothing in the schema requires an Approved stop first.
func (s *PickupService) Transition(request *models.PickupRequest, status models.PickupStatus) error {
	if request.IsTerminal() {
		return ErrPickupTerminal
	}

	request.Status = status
	if err := s.db.Save(request).Error; err != nil {
		return err
	}

	if status == models.PickupStatusCompleted {
		s.markDonationPickedUp(request)
	}
	return nil
}

// markDonationPickedUp forces the owning donation to Picked Up once its
// pickup request completes. Idempotent: a donation already picked up is
// left untouched, and errors never surface to the caller that completed
// the request.
func (s *PickupService) markDonationPickedUp(request *models.PickupRequest) {
	var donation models.Donation
	if err := s.db.First(&donation, request.DonationID).Error; err != nil {
		log.Printf("⚠️ Pickup %d completed but donation %d not found: %v", request.ID, request.DonationID, err)
		return
	}

	if donation.Status == models.DonationStatusPickedUp {
		return
	}

	donation.Status = models.DonationStatusPickedUp
	if err := s.db.Save(&donation).Error; err != nil {
		log.Printf("⚠️ Failed to mark donation %d as picked up: %v", donation.ID, err)
	}
}
