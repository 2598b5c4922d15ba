package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"food-donation-server/database"
	"food-donation-server/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func ptrFloat(f float64) *float64 { return &f }

func seedNGOWithUser(t *testing.T, db *gorm.DB, email string, lat, lng *float64) (*models.NGO, *models.User) {
	t.Helper()

	user := models.User{
		Username:     "ngo-" + email,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create NGO user: %v", err)
	}

	ngo := models.NGO{
		UserID:    &user.ID,
		Name:      "Helping Hands",
		Email:     email,
		City:      "Mumbai",
		Latitude:  lat,
		Longitude: lng,
	}
	if err := db.Create(&ngo).Error; err != nil {
		t.Fatalf("failed to create NGO: %v", err)
	}
	return &ngo, &user
}

func seedRequirement(t *testing.T, db *gorm.DB, ngoID uint, servings int, requiredDate time.Time) *models.NGOFoodRequirement {
	t.Helper()

	requirement := models.NGOFoodRequirement{
		NGOID:             ngoID,
		RequiredDate:      requiredDate,
		EstimatedServings: servings,
		Status:            models.RequirementStatusPending,
	}
	if err := db.Create(&requirement).Error; err != nil {
		t.Fatalf("failed to create requirement: %v", err)
	}
	return &requirement
}

func testDonation(quantity int, expiry time.Time, withCoords bool) *models.Donation {
	d := &models.Donation{
		Title:      "Rice and curry",
		Quantity:   quantity,
		Unit:       "servings",
		Location:   "Mumbai",
		ExpiryDate: expiry,
		Status:     models.DonationStatusAvailable,
	}
	if withCoords {
		d.Latitude = ptrFloat(19.076)
		d.Longitude = ptrFloat(72.8777)
	}
	return d
}

func TestMatchIncludesFittingRequirement(t *testing.T) {
	db := openTestDB(t)
	ngo, ngoUser := seedNGOWithUser(t, db, "ngo@example.org", ptrFloat(19.1), ptrFloat(72.9))

	expiry := time.Now().AddDate(0, 0, 3)
	requirement := seedRequirement(t, db, ngo.ID, 5, expiry.AddDate(0, 0, 1))

	donation := testDonation(10, expiry, true)
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	matches := NewMatchingService(db).MatchDonationToRequirements(donation)

	if len(matches) != 1 || matches[0].ID != requirement.ID {
		t.Fatalf("expected the requirement to match, got %d matches", len(matches))
	}

	var notifications []models.Notification
	db.Where("user_id = ?", ngoUser.ID).Find(&notifications)
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification for the NGO user, got %d", len(notifications))
	}
	if notifications[0].Type != models.NotificationFoodShortage {
		t.Errorf("notification type = %q, want %q", notifications[0].Type, models.NotificationFoodShortage)
	}
	if notifications[0].Metadata.FloatValue("donation_id") != float64(donation.ID) {
		t.Errorf("notification metadata missing donation_id: %+v", notifications[0].Metadata)
	}
	if notifications[0].Metadata.FloatValue("distance_km") <= 0 {
		t.Errorf("notification metadata missing distance_km: %+v", notifications[0].Metadata)
	}
}

func TestMatchExcludesOversizedRequirement(t *testing.T) {
	db := openTestDB(t)
	ngo, _ := seedNGOWithUser(t, db, "ngo@example.org", ptrFloat(19.1), ptrFloat(72.9))

	expiry := time.Now().AddDate(0, 0, 3)
	seedRequirement(t, db, ngo.ID, 15, expiry.AddDate(0, 0, 1))

	donation := testDonation(10, expiry, true)
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	if matches := NewMatchingService(db).MatchDonationToRequirements(donation); len(matches) != 0 {
		t.Fatalf("requirement needing 15 servings must not match quantity 10, got %d matches", len(matches))
	}
}

func TestMatchExcludesRequirementBeforeExpiry(t *testing.T) {
	db := openTestDB(t)
	ngo, _ := seedNGOWithUser(t, db, "ngo@example.org", ptrFloat(19.1), ptrFloat(72.9))

	expiry := time.Now().AddDate(0, 0, 3)
	seedRequirement(t, db, ngo.ID, 5, expiry.AddDate(0, 0, -1))

	donation := testDonation(10, expiry, true)
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	if matches := NewMatchingService(db).MatchDonationToRequirements(donation); len(matches) != 0 {
		t.Fatalf("requirement dated before expiry must not match, got %d matches", len(matches))
	}
}

func TestMatchRequiresCoordinatesOnBothSides(t *testing.T) {
	db := openTestDB(t)

	expiry := time.Now().AddDate(0, 0, 3)
	requiredDate := expiry.AddDate(0, 0, 1)

	// NGO without coordinates
	bare, _ := seedNGOWithUser(t, db, "bare@example.org", nil, nil)
	seedRequirement(t, db, bare.ID, 5, requiredDate)

	withCoords := testDonation(10, expiry, true)
	if err := db.Create(withCoords).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}
	if matches := NewMatchingService(db).MatchDonationToRequirements(withCoords); len(matches) != 0 {
		t.Fatalf("NGO without coordinates must not match, got %d matches", len(matches))
	}

	// Donation without coordinates against an NGO that has them
	located, _ := seedNGOWithUser(t, db, "located@example.org", ptrFloat(19.1), ptrFloat(72.9))
	seedRequirement(t, db, located.ID, 5, requiredDate)

	noCoords := testDonation(10, expiry, false)
	if err := db.Create(noCoords).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}
	if matches := NewMatchingService(db).MatchDonationToRequirements(noCoords); len(matches) != 0 {
		t.Fatalf("donation without coordinates must not match, got %d matches", len(matches))
	}
}

func TestMatchSkipsNGOWithoutLinkedAccount(t *testing.T) {
	db := openTestDB(t)

	// NGO record with coordinates but no user behind its email
	ngo := models.NGO{
		Name:      "Unlinked Kitchen",
		Email:     "nobody@example.org",
		Latitude:  ptrFloat(19.1),
		Longitude: ptrFloat(72.9),
	}
	if err := db.Create(&ngo).Error; err != nil {
		t.Fatalf("failed to create NGO: %v", err)
	}

	expiry := time.Now().AddDate(0, 0, 3)
	seedRequirement(t, db, ngo.ID, 5, expiry.AddDate(0, 0, 1))

	donation := testDonation(10, expiry, true)
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	// The match is still returned; only the notification is skipped
	matches := NewMatchingService(db).MatchDonationToRequirements(donation)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no notifications for unlinked NGO, got %d", count)
	}
}

func TestMatchDoesNotMutateState(t *testing.T) {
	db := openTestDB(t)
	ngo, _ := seedNGOWithUser(t, db, "ngo@example.org", ptrFloat(19.1), ptrFloat(72.9))

	expiry := time.Now().AddDate(0, 0, 3)
	requirement := seedRequirement(t, db, ngo.ID, 5, expiry.AddDate(0, 0, 1))

	donation := testDonation(10, expiry, true)
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}

	NewMatchingService(db).MatchDonationToRequirements(donation)

	var freshDonation models.Donation
	db.First(&freshDonation, donation.ID)
	if freshDonation.Status != models.DonationStatusAvailable {
		t.Errorf("matching must not change donation status, got %s", freshDonation.Status)
	}

	var freshRequirement models.NGOFoodRequirement
	db.First(&freshRequirement, requirement.ID)
	if freshRequirement.Status != models.RequirementStatusPending {
		t.Errorf("matching must not change requirement status, got %s", freshRequirement.Status)
	}
}
