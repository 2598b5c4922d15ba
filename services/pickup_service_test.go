package services

import (
	"errors"
	"testing"
	"time"

	"food-donation-server/models"
)

func TestCompletePickupForcesDonationPickedUp(t *testing.T) {
	db := openTestDB(t)

	donation := testDonation(10, time.Now().AddDate(0, 0, 2), false)
	donation.Status = models.DonationStatusReserved
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	request := models.PickupRequest{
		DonationID:     donation.ID,
		RequesterName:  "Helping Hands",
		RequesterEmail: "ngo@example.org",
		Status:         models.PickupStatusApproved,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("failed to create pickup request: %v", err)
	}

	if err := NewPickupService(db).Transition(&request, models.PickupStatusCompleted); err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}

	var fresh models.Donation
	db.First(&fresh, donation.ID)
	if fresh.Status != models.DonationStatusPickedUp {
		t.Errorf("donation status = %s, want Picked Up", fresh.Status)
	}
}

func TestCompletePickupIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	donation := testDonation(10, time.Now().AddDate(0, 0, 2), false)
	donation.Status = models.DonationStatusPickedUp
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	request := models.PickupRequest{
		DonationID:     donation.ID,
		RequesterName:  "Helping Hands",
		RequesterEmail: "ngo@example.org",
		Status:         models.PickupStatusApproved,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("failed to create pickup request: %v", err)
	}

	// Completing when the donation is already picked up must not error
	if err := NewPickupService(db).Transition(&request, models.PickupStatusCompleted); err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}

	var fresh models.Donation
	db.First(&fresh, donation.ID)
	if fresh.Status != models.DonationStatusPickedUp {
		t.Errorf("donation status changed to %s, want Picked Up unchanged", fresh.Status)
	}
}

func TestPendingToCompletedIsLegal(t *testing.T) {
	db := openTestDB(t)

	donation := testDonation(10, time.Now().AddDate(0, 0, 2), false)
	donation.Status = models.DonationStatusReserved
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	request := models.PickupRequest{
		DonationID:     donation.ID,
		RequesterName:  "Helping Hands",
		RequesterEmail: "ngo@example.org",
		Status:         models.PickupStatusPending,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("failed to create pickup request: %v", err)
	}

	if err := NewPickupService(db).Transition(&request, models.PickupStatusCompleted); err != nil {
		t.Fatalf("Pending -> Completed must be allowed, got %v", err)
	}

	var fresh models.Donation
	db.First(&fresh, donation.ID)
	if fresh.Status != models.DonationStatusPickedUp {
		t.Errorf("donation status = %s, want Picked Up", fresh.Status)
	}
}

func TestTerminalRequestRejectsFurtherTransitions(t *testing.T) {
	db := openTestDB(t)

	donation := testDonation(10, time.Now().AddDate(0, 0, 2), false)
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	for _, terminal := range []models.PickupStatus{
		models.PickupStatusCompleted,
		models.PickupStatusRejected,
		models.PickupStatusCancelled,
	} {
		request := models.PickupRequest{
			DonationID:     donation.ID,
			RequesterName:  "Helping Hands",
			RequesterEmail: "ngo@example.org",
			Status:         terminal,
		}
		if err := db.Create(&request).Error; err != nil {
			t.Fatalf("failed to create pickup request: %v", err)
		}

		err := NewPickupService(db).Transition(&request, models.PickupStatusApproved)
		if !errors.Is(err, ErrPickupTerminal) {
			t.Errorf("transition out of %s: err = %v, want ErrPickupTerminal", terminal, err)
		}
	}
}
