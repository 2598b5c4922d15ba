package routes

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/models"
)

func TestCreateRequirementValidatesServings(t *testing.T) {
	router := setupTestRouter(t)
	_, ngoToken := createAccount(t, "needy-ngo", models.RoleNGO, true, false)

	w := doJSON(router, http.MethodPost, "/api/v1/requirements", ngoToken, gin.H{
		"required_date":      time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		"estimated_servings": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero servings status = %d, want 400", w.Code)
	}
}

func TestCreateRequirementNotifiesCityDonors(t *testing.T) {
	router := setupTestRouter(t)
	_, ngoToken := createAccount(t, "city-ngo", models.RoleNGO, true, false)

	// Same city as the NGO record (Mumbai)
	localDonor, _ := createAccount(t, "local-donor", models.RoleDonor, true, false)

	// A donor in another city stays quiet
	remoteDonor, _ := createAccount(t, "remote-donor", models.RoleDonor, true, false)
	database.DB.Model(&models.Donor{}).Where("user_id = ?", remoteDonor.ID).
		Update("city", "Delhi")

	w := doJSON(router, http.MethodPost, "/api/v1/requirements", ngoToken, gin.H{
		"required_date":      time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		"required_time":      "12:30:00",
		"estimated_servings": 40,
		"description":        "Lunch for the shelter",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create requirement status = %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["donors_notified"].(float64) != 1 {
		t.Errorf("donors_notified = %v, want 1", body["donors_notified"])
	}

	var count int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", localDonor.ID, models.NotificationFoodShortage).
		Count(&count)
	if count != 1 {
		t.Errorf("local donor notifications = %d, want 1", count)
	}

	database.DB.Model(&models.Notification{}).
		Where("user_id = ?", remoteDonor.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("remote donor notifications = %d, want 0", count)
	}
}
