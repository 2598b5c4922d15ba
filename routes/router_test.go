package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"food-donation-server/config"
	"food-donation-server/database"
	"food-donation-server/middleware"
	"food-donation-server/models"
	"food-donation-server/utils"
)

// setupTestRouter swaps the package-level DB for an in-memory sqlite and
// builds a router with the full route set, minus rate limiting.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Load()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	previous := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = previous })

	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("test_session", store))

	api := router.Group("/api/v1")
	RegisterAuthRoutes(api.Group("/auth"))
	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware())
	RegisterPublicDonationRoutes(public)
	RegisterLocationRoutes(api)
	RegisterPaymentRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	RegisterMeRoutes(protected.Group("/auth"))
	RegisterDonationRoutes(protected)
	RegisterPickupRoutes(protected)
	RegisterRequirementRoutes(protected)
	RegisterNotificationRoutes(protected)
	RegisterDonorRoutes(protected)
	RegisterNGORoutes(protected)
	RegisterAdminRoutes(protected)

	return router
}

// createAccount seeds a user with the given role and returns a bearer
// token for it. For NGOs the approval flags mirror the arguments.
func createAccount(t *testing.T, username string, role models.UserRole, approved, rejected bool) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		Email:        username + "@example.org",
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := models.UserProfile{
		UserID:     user.ID,
		Role:       role,
		IsApproved: approved,
		IsRejected: rejected,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	switch role {
	case models.RoleDonor:
		donor := models.Donor{UserID: &user.ID, Name: username, Email: user.Email, City: "Mumbai"}
		if err := database.DB.Create(&donor).Error; err != nil {
			t.Fatalf("failed to create donor record: %v", err)
		}
	case models.RoleNGO:
		ngo := models.NGO{UserID: &user.ID, Name: username, Email: user.Email, City: "Mumbai"}
		if err := database.DB.Create(&ngo).Error; err != nil {
			t.Fatalf("failed to create NGO record: %v", err)
		}
	}

	token, err := utils.GenerateToken(user.ID, string(role))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return &user, token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestNGOApprovalGating(t *testing.T) {
	router := setupTestRouter(t)

	// Unapproved, unrejected: blocked
	_, pendingToken := createAccount(t, "pending-ngo", models.RoleNGO, false, false)
	if w := doJSON(router, http.MethodGet, "/api/v1/ngo/dashboard", pendingToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("pending NGO dashboard status = %d, want 403", w.Code)
	}

	// Approved: allowed
	_, approvedToken := createAccount(t, "approved-ngo", models.RoleNGO, true, false)
	if w := doJSON(router, http.MethodGet, "/api/v1/ngo/dashboard", approvedToken, nil); w.Code != http.StatusOK {
		t.Errorf("approved NGO dashboard status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// Rejected stays blocked even though is_approved is false, not a
	// separate state
	_, rejectedToken := createAccount(t, "rejected-ngo", models.RoleNGO, false, true)
	if w := doJSON(router, http.MethodGet, "/api/v1/ngo/dashboard", rejectedToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("rejected NGO dashboard status = %d, want 403", w.Code)
	}

	// Role mismatch: a donor cannot reach NGO routes at all
	_, donorToken := createAccount(t, "some-donor", models.RoleDonor, true, false)
	if w := doJSON(router, http.MethodGet, "/api/v1/ngo/dashboard", donorToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("donor on NGO dashboard status = %d, want 403", w.Code)
	}
}

func TestAdminApproveUnblocksNGO(t *testing.T) {
	router := setupTestRouter(t)

	ngoUser, ngoToken := createAccount(t, "await-ngo", models.RoleNGO, false, false)
	_, adminToken := createAccount(t, "the-admin", models.RoleAdmin, true, false)

	var profile models.UserProfile
	if err := database.DB.Where("user_id = ?", ngoUser.ID).First(&profile).Error; err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}

	w := doJSON(router, http.MethodPost,
		"/api/v1/admin/ngos/"+itoa(profile.ID)+"/approve", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve status = %d: %s", w.Code, w.Body.String())
	}

	if w := doJSON(router, http.MethodGet, "/api/v1/ngo/dashboard", ngoToken, nil); w.Code != http.StatusOK {
		t.Errorf("dashboard after approval status = %d, want 200", w.Code)
	}

	// Approval raised a notification for the NGO account
	var count int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", ngoUser.ID, models.NotificationNGOApproval).
		Count(&count)
	if count != 1 {
		t.Errorf("approval notifications = %d, want 1", count)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
