package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/middleware"
	"food-donation-server/models"
	"food-donation-server/utils"
)

// NutritionAnalysisRequest represents a request to estimate nutrition for
// an ingredient list
type NutritionAnalysisRequest struct {
	Ingredients string `json:"ingredients" binding:"required"`
	MealType    string `json:"meal_type"`
}

// RegisterDonorRoutes registers the donor dashboard routes
func RegisterDonorRoutes(router *gin.RouterGroup) {
	donor := router.Group("/donor", middleware.RoleRequired(models.RoleDonor))
	donor.GET("/dashboard", donorDashboard)
	donor.GET("/history", donorHistory)
	donor.POST("/nutrition-analysis", nutritionAnalysis)
}

// donorDashboard aggregates everything a donor sees on login: their active
// listings, unread alerts, where need has been declared near them, and
// other available food in their city.
func donorDashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	donor, err := donorForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Donor record not found",
			"message": "No donor record is linked to this account",
		})
		return
	}

	var activeDonations []models.Donation
	database.DB.Where("donor_id = ? AND status IN ?", donor.ID,
		[]models.DonationStatus{models.DonationStatusAvailable, models.DonationStatusReserved}).
		Order("expiry_date ASC").
		Find(&activeDonations)

	active := make([]gin.H, 0, len(activeDonations))
	for _, d := range activeDonations {
		active = append(active, donationSummary(d))
	}

	var unreadCount int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&unreadCount)

	// Pending requirements from NGOs in the donor's city
	var upcoming []models.NGOFoodRequirement
	if donor.City != "" {
		database.DB.Preload("NGO").
			Joins("JOIN ngos ON ngos.id = ngo_food_requirements.ngo_id").
			Where("ngo_food_requirements.status = ? AND LOWER(ngos.city) = LOWER(?)",
				models.RequirementStatusPending, donor.City).
			Order("ngo_food_requirements.required_date ASC").
			Limit(20).
			Find(&upcoming)
	}

	var nearbyDonations []models.Donation
	if donor.City != "" {
		database.DB.Preload("Donor").
			Where("status = ? AND expiry_date >= ? AND LOWER(location) LIKE ? AND donor_id <> ?",
				models.DonationStatusAvailable, startOfDay(time.Now()),
				"%"+strings.ToLower(donor.City)+"%", donor.ID).
			Order("expiry_date ASC").
			Limit(20).
			Find(&nearbyDonations)
	}

	nearby := make([]gin.H, 0, len(nearbyDonations))
	for _, d := range nearbyDonations {
		nearby = append(nearby, donationSummary(d))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"donor":                 donor,
			"active_donations":      active,
			"unread_notifications":  unreadCount,
			"upcoming_requirements": upcoming,
			"nearby_donations":      nearby,
		},
	})
}

// donorHistory lists everything the donor has ever listed, newest first
func donorHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	donor, err := donorForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Donor record not found",
			"message": "No donor record is linked to this account",
		})
		return
	}

	var donations []models.Donation
	if err := database.DB.Preload("NGO").
		Where("donor_id = ?", donor.ID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load donation history",
		})
		return
	}

	results := make([]gin.H, 0, len(donations))
	for _, d := range donations {
		entry := donationSummary(d)
		if d.NGO != nil {
			entry["ngo_name"] = d.NGO.Name
		}
		results = append(results, entry)
	}

	totalServings := 0
	pickedUp := 0
	for _, d := range donations {
		totalServings += d.Quantity
		if d.Status == models.DonationStatusPickedUp {
			pickedUp++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"donations":      results,
			"total_listed":   len(donations),
			"total_servings": totalServings,
			"picked_up":      pickedUp,
		},
	})
}

// nutritionAnalysis runs the keyword estimator over an ingredient list so
// donors can attach a nutrition estimate to a listing.
func nutritionAnalysis(c *gin.Context) {
	var req NutritionAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	analysis := utils.NutritionalScore(req.Ingredients, req.MealType)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    analysis,
	})
}
