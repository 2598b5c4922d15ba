package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"food-donation-server/models"
	"food-donation-server/utils"
)

// MatchingService pairs new donations against pending NGO food
// requirements and raises notifications for the NGOs behind them.
type MatchingService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewMatchingService(db *gorm.DB) *MatchingService {
	return &MatchingService{
		db:            db,
		notifications: NewNotificationService(db),
	}
}

// MatchDonationToRequirements finds pending requirements a new donation
// could serve and notifies the NGOs that declared them.
//
// A requirement qualifies when its required date is on or after the
// donation's expiry date, both the donation and the requirement's NGO carry
// coordinates, and its estimated servings fit within the donation quantity.
// Distance between the two points is computed and attached to the
// notification metadata but does not reject a match; proximity bounding is
// a manual decision left to the NGO.
//
// The operation is read-only with respect to donations and requirements,
// and it never fails: notification problems are logged and the match list
// is returned regardless.
func (s *MatchingService) MatchDonationToRequirements(donation *models.Donation) []models.NGOFoodRequirement {
	if donation == nil {
		return nil
	}

	var pending []models.NGOFoodRequirement
	err := s.db.Preload("NGO").
		Where("status = ? AND required_date >= ?", models.RequirementStatusPending, donation.ExpiryDate).
		Find(&pending).Error
	if err != nil {
		log.Printf("⚠️ Failed to load pending requirements for donation %d: %v", donation.ID, err)
		return nil
	}

	var matches []models.NGOFoodRequirement
	if donation.HasCoordinates() {
		for _, requirement := range pending {
			if requirement.NGO.Latitude == nil || requirement.NGO.Longitude == nil {
				continue
			}
			if requirement.EstimatedServings <= donation.Quantity {
				matches = append(matches, requirement)
			}
		}
	}

	for _, match := range matches {
		s.notifyNGO(donation, match)
	}

	return matches
}

// notifyNGO raises a food_shortage notification for the account linked to
// the matched requirement's NGO. NGOs without a linked account are skipped
// silently; they simply have nobody to notify yet.
func (s *MatchingService) notifyNGO(donation *models.Donation, match models.NGOFoodRequirement) {
	var ngoUser models.User
	if err := s.db.Where("email = ?", match.NGO.Email).First(&ngoUser).Error; err != nil {
		return
	}

	metadata := models.JSONMap{
		"donation_id":    donation.ID,
		"requirement_id": match.ID,
	}
	if donation.HasCoordinates() && match.NGO.Latitude != nil && match.NGO.Longitude != nil {
		metadata["distance_km"] = utils.HaversineDistance(
			*donation.Latitude, *donation.Longitude,
			*match.NGO.Latitude, *match.NGO.Longitude,
		)
	}

	s.notifications.ShowInAppAlert(
		ngoUser.ID,
		models.NotificationFoodShortage,
		"Food Available Nearby",
		fmt.Sprintf("Food donation matching your requirement on %s is available!", match.RequiredDate.Format("2006-01-02")),
		metadata,
	)
}
