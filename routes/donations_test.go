package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/models"
	"food-donation-server/utils"
)

func seedListing(t *testing.T, title, location string, quantity int, expiry time.Time) *models.Donation {
	t.Helper()
	donation := models.Donation{
		Title:      title,
		Quantity:   quantity,
		Unit:       "servings",
		Location:   location,
		ExpiryDate: expiry,
		Status:     models.DonationStatusAvailable,
	}
	if err := database.DB.Create(&donation).Error; err != nil {
		t.Fatalf("failed to seed donation: %v", err)
	}
	return &donation
}

func listingResults(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	body := decodeBody(t, w)
	results, ok := body["results"].([]interface{})
	if !ok {
		t.Fatalf("listing response missing results array: %v", body)
	}
	return results
}

func TestListDonationsPaginationShape(t *testing.T) {
	router := setupTestRouter(t)

	expiry := time.Now().AddDate(0, 0, 5)
	for i := 0; i < 5; i++ {
		seedListing(t, "Meal box", "Mumbai", 10, expiry)
	}

	w := doJSON(router, http.MethodGet, "/api/v1/donations?page=1&per_page=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("listing status = %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["count"].(float64) != 5 {
		t.Errorf("count = %v, want 5", body["count"])
	}
	if body["page"].(float64) != 1 || body["per_page"].(float64) != 2 {
		t.Errorf("pagination fields wrong: %v", body)
	}
	if body["pages"].(float64) != 3 {
		t.Errorf("pages = %v, want 3", body["pages"])
	}
	if results := body["results"].([]interface{}); len(results) != 2 {
		t.Errorf("results length = %d, want 2", len(results))
	}
}

func TestListDonationsLocationFilter(t *testing.T) {
	router := setupTestRouter(t)

	expiry := time.Now().AddDate(0, 0, 5)
	seedListing(t, "Rice", "Mumbai Central", 10, expiry)
	seedListing(t, "Bread", "Delhi", 10, expiry)

	w := doJSON(router, http.MethodGet, "/api/v1/donations?location=mumbai", "", nil)
	results := listingResults(t, w)
	if len(results) != 1 {
		t.Fatalf("filtered results = %d, want 1", len(results))
	}
	first := results[0].(map[string]interface{})
	if first["title"] != "Rice" {
		t.Errorf("filtered result = %v, want the Mumbai donation", first["title"])
	}
}

func TestListDonationsExpiryFilter(t *testing.T) {
	router := setupTestRouter(t)

	now := time.Now()
	urgent := seedListing(t, "Today's meal", "Mumbai", 10, startOfDay(now).Add(12*time.Hour))
	seedListing(t, "Next week's meal", "Mumbai", 10, now.AddDate(0, 0, 7))

	w := doJSON(router, http.MethodGet, "/api/v1/donations?expiry=urgent", "", nil)
	results := listingResults(t, w)
	if len(results) != 1 {
		t.Fatalf("urgent results = %d, want 1", len(results))
	}
	first := results[0].(map[string]interface{})
	if first["id"].(float64) != float64(urgent.ID) {
		t.Errorf("urgent filter returned wrong donation: %v", first["title"])
	}
	if first["expire_priority"] != utils.PriorityUrgent {
		t.Errorf("expire_priority = %v, want urgent", first["expire_priority"])
	}

	w = doJSON(router, http.MethodGet, "/api/v1/donations?expiry=fresh", "", nil)
	results = listingResults(t, w)
	if len(results) != 1 {
		t.Fatalf("fresh results = %d, want 1", len(results))
	}
	first = results[0].(map[string]interface{})
	if first["title"] != "Next week's meal" {
		t.Errorf("fresh filter returned wrong donation: %v", first["title"])
	}
}

func TestListDonationsSessionLocationFallback(t *testing.T) {
	router := setupTestRouter(t)

	expiry := time.Now().AddDate(0, 0, 5)
	seedListing(t, "Rice", "Mumbai Central", 10, expiry)
	seedListing(t, "Bread", "Delhi", 10, expiry)

	// Store the filter in the session, then list without a query param
	setResp := doJSON(router, http.MethodPost, "/api/v1/location/filter", "",
		gin.H{"location": "Delhi"})
	if setResp.Code != http.StatusOK {
		t.Fatalf("set filter status = %d: %s", setResp.Code, setResp.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/donations", nil)
	for _, c := range setResp.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	results := listingResults(t, w)
	if len(results) != 1 {
		t.Fatalf("session-filtered results = %d, want 1", len(results))
	}
	first := results[0].(map[string]interface{})
	if first["title"] != "Bread" {
		t.Errorf("session filter returned wrong donation: %v", first["title"])
	}

	// An explicit query parameter wins over the session value
	req = httptest.NewRequest(http.MethodGet, "/api/v1/donations?location=mumbai", nil)
	for _, c := range setResp.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	results = listingResults(t, w)
	if len(results) != 1 || results[0].(map[string]interface{})["title"] != "Rice" {
		t.Errorf("query parameter should override the session filter")
	}
}

func TestCreateDonationValidatesQuantity(t *testing.T) {
	router := setupTestRouter(t)
	_, donorToken := createAccount(t, "listing-donor", models.RoleDonor, true, false)

	w := doJSON(router, http.MethodPost, "/api/v1/donations", donorToken, gin.H{
		"title":       "Empty box",
		"quantity":    0,
		"location":    "Mumbai",
		"expiry_date": time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero quantity status = %d, want 400", w.Code)
	}
}

func TestCreateDonationRunsMatching(t *testing.T) {
	router := setupTestRouter(t)
	_, donorToken := createAccount(t, "matching-donor", models.RoleDonor, true, false)

	// An approved NGO with coordinates and a fitting pending requirement
	ngoUser, _ := createAccount(t, "fed-ngo", models.RoleNGO, true, false)
	lat, lng := 19.1, 72.9
	database.DB.Model(&models.NGO{}).Where("user_id = ?", ngoUser.ID).
		Updates(map[string]interface{}{"latitude": lat, "longitude": lng})

	var ngo models.NGO
	database.DB.Where("user_id = ?", ngoUser.ID).First(&ngo)
	requirement := models.NGOFoodRequirement{
		NGOID:             ngo.ID,
		RequiredDate:      time.Now().AddDate(0, 0, 10),
		EstimatedServings: 5,
		Status:            models.RequirementStatusPending,
	}
	if err := database.DB.Create(&requirement).Error; err != nil {
		t.Fatalf("failed to seed requirement: %v", err)
	}

	w := doJSON(router, http.MethodPost, "/api/v1/donations", donorToken, gin.H{
		"title":       "Wedding leftovers",
		"quantity":    20,
		"location":    "Mumbai",
		"latitude":    19.076,
		"longitude":   72.8777,
		"expiry_date": time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create donation status = %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["matched_ngos"].(float64) != 1 {
		t.Errorf("matched_ngos = %v, want 1", body["matched_ngos"])
	}
}

func TestPickupRequestReservesDonation(t *testing.T) {
	router := setupTestRouter(t)
	_, ngoToken := createAccount(t, "claiming-ngo", models.RoleNGO, true, false)

	donation := seedListing(t, "Rice", "Mumbai", 10, time.Now().AddDate(0, 0, 3))

	w := doJSON(router, http.MethodPost,
		"/api/v1/donations/"+itoa(donation.ID)+"/pickup-requests", ngoToken,
		gin.H{"notes": "We can pick up today"})
	if w.Code != http.StatusCreated {
		t.Fatalf("pickup request status = %d: %s", w.Code, w.Body.String())
	}

	var fresh models.Donation
	database.DB.First(&fresh, donation.ID)
	if fresh.Status != models.DonationStatusReserved {
		t.Errorf("donation status = %s, want Reserved", fresh.Status)
	}
	if fresh.NGOID == nil {
		t.Errorf("donation not linked to the claiming NGO")
	}

	// A second claim on the reserved donation is rejected
	_, otherToken := createAccount(t, "late-ngo", models.RoleNGO, true, false)
	w = doJSON(router, http.MethodPost,
		"/api/v1/donations/"+itoa(donation.ID)+"/pickup-requests", otherToken, gin.H{})
	if w.Code != http.StatusConflict {
		t.Errorf("second claim status = %d, want 409", w.Code)
	}
}
