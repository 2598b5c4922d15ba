package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/middleware"
	"food-donation-server/models"
	"food-donation-server/services"
)

// RejectNGORequest carries the rejection reason shown to the NGO
type RejectNGORequest struct {
	Reason string `json:"reason"`
}

// RegisterAdminRoutes registers the admin console routes
func RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.RoleRequired(models.RoleAdmin))
	admin.GET("/stats", adminStats)
	admin.GET("/ngos", adminListNGOs)
	admin.POST("/ngos/:id/approve", adminApproveNGO)
	admin.POST("/ngos/:id/reject", adminRejectNGO)
	admin.GET("/users", adminListUsers)
}

// adminStats summarizes platform activity for the admin console
func adminStats(c *gin.Context) {
	var (
		totalUsers        int64
		totalDonors       int64
		totalNGOs         int64
		pendingNGOs       int64
		totalDonations    int64
		activeDonations   int64
		pickedUpDonations int64
		expiredDonations  int64
		openRequirements  int64
		totalPayments     int64
	)

	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.Donor{}).Count(&totalDonors)
	database.DB.Model(&models.NGO{}).Count(&totalNGOs)
	database.DB.Model(&models.UserProfile{}).
		Where("role = ? AND is_approved = ? AND is_rejected = ?", models.RoleNGO, false, false).
		Count(&pendingNGOs)
	database.DB.Model(&models.Donation{}).Count(&totalDonations)
	database.DB.Model(&models.Donation{}).
		Where("status = ?", models.DonationStatusAvailable).Count(&activeDonations)
	database.DB.Model(&models.Donation{}).
		Where("status = ?", models.DonationStatusPickedUp).Count(&pickedUpDonations)
	database.DB.Model(&models.Donation{}).
		Where("status = ?", models.DonationStatusExpired).Count(&expiredDonations)
	database.DB.Model(&models.NGOFoodRequirement{}).
		Where("status = ?", models.RequirementStatusPending).Count(&openRequirements)
	database.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusCompleted).Count(&totalPayments)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users":              totalUsers,
			"donors":             totalDonors,
			"ngos":               totalNGOs,
			"pending_ngos":       pendingNGOs,
			"donations":          totalDonations,
			"active_donations":   activeDonations,
			"picked_up":          pickedUpDonations,
			"expired_donations":  expiredDonations,
			"open_requirements":  openRequirements,
			"completed_payments": totalPayments,
		},
	})
}

// adminListNGOs serves the approval queues. The queue parameter selects
// pending (default), active, or rejected registrations.
func adminListNGOs(c *gin.Context) {
	queue := c.DefaultQuery("queue", "pending")

	query := database.DB.Model(&models.UserProfile{}).
		Preload("User").
		Where("role = ?", models.RoleNGO)

	switch queue {
	case "pending":
		query = query.Where("is_approved = ? AND is_rejected = ?", false, false)
	case "active":
		query = query.Where("is_approved = ? AND is_rejected = ?", true, false)
	case "rejected":
		query = query.Where("is_rejected = ?", true)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid queue",
			"message": "Queue must be one of: pending, active, rejected",
		})
		return
	}

	var profiles []models.UserProfile
	if err := query.Order("created_at ASC").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load NGO registrations",
		})
		return
	}

	// Attach the organization record behind each account
	results := make([]gin.H, 0, len(profiles))
	for _, profile := range profiles {
		entry := gin.H{"profile": profile}
		var ngo models.NGO
		if err := database.DB.Where("user_id = ?", profile.UserID).First(&ngo).Error; err == nil {
			entry["ngo"] = ngo
		}
		results = append(results, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"queue":   queue,
		"data":    results,
	})
}

// adminApproveNGO grants an NGO account dashboard access
func adminApproveNGO(c *gin.Context) {
	profile, user, ok := loadNGOProfile(c)
	if !ok {
		return
	}

	if profile.IsApproved && !profile.IsRejected {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Already approved",
			"message": "This NGO registration is already approved",
		})
		return
	}

	profile.IsApproved = true
	profile.IsRejected = false
	if err := database.DB.Save(profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Update failed",
			"message": "Failed to approve NGO registration",
		})
		return
	}

	// Mark the organization record verified as well
	database.DB.Model(&models.NGO{}).
		Where("user_id = ?", profile.UserID).
		Update("is_verified", true)

	services.NewNotificationService(database.DB).NotifyUser(user,
		models.NotificationNGOApproval,
		"Registration Approved",
		"Your NGO registration has been approved. You now have full access to the platform.",
		models.JSONMap{"profile_id": profile.ID})

	log.Printf("✅ NGO profile %d (user %d) approved", profile.ID, profile.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "NGO approved",
		"data":    profile,
	})
}

// adminRejectNGO soft-rejects a registration: the account stays, access is
// denied, and the reason travels in the notification.
func adminRejectNGO(c *gin.Context) {
	profile, user, ok := loadNGOProfile(c)
	if !ok {
		return
	}

	var req RejectNGORequest
	_ = c.ShouldBindJSON(&req) // reason optional

	if profile.IsRejected {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Already rejected",
			"message": "This NGO registration is already rejected",
		})
		return
	}

	profile.IsApproved = false
	profile.IsRejected = true
	if err := database.DB.Save(profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Update failed",
			"message": "Failed to reject NGO registration",
		})
		return
	}

	message := "Your NGO registration was rejected."
	if req.Reason != "" {
		message = fmt.Sprintf("Your NGO registration was rejected: %s", req.Reason)
	}

	services.NewNotificationService(database.DB).NotifyUser(user,
		models.NotificationNGORejection,
		"Registration Rejected",
		message,
		models.JSONMap{"profile_id": profile.ID, "reason": req.Reason})

	log.Printf("✅ NGO profile %d (user %d) rejected", profile.ID, profile.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "NGO rejected",
		"data":    profile,
	})
}

// adminListUsers serves the user management listing
func adminListUsers(c *gin.Context) {
	var users []models.User
	query := database.DB.Preload("Profile").Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		query = query.Joins("JOIN user_profiles ON user_profiles.user_id = users.id").
			Where("user_profiles.role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// loadNGOProfile resolves the NGO profile named in the URL along with its
// account, writing the error response itself when the lookup fails.
func loadNGOProfile(c *gin.Context) (*models.UserProfile, *models.User, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid profile id",
			"message": "Profile id must be numeric",
		})
		return nil, nil, false
	}

	var profile models.UserProfile
	if err := database.DB.First(&profile, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Profile not found",
			"message": "No user profile with that id",
		})
		return nil, nil, false
	}

	if !profile.IsNGO() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Not an NGO",
			"message": "Only NGO registrations can be approved or rejected",
		})
		return nil, nil, false
	}

	var user models.User
	if err := database.DB.First(&user, profile.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "User not found",
			"message": "No account behind this profile",
		})
		return nil, nil, false
	}

	return &profile, &user, true
}
