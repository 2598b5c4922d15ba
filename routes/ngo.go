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

// RegisterNGORoutes registers the NGO dashboard routes
func RegisterNGORoutes(router *gin.RouterGroup) {
	ngo := router.Group("/ngo", middleware.RoleRequired(models.RoleNGO))
	ngo.GET("/dashboard", ngoDashboard)
	ngo.GET("/impact", ngoImpact)
	ngo.GET("/history", ngoHistory)
	ngo.GET("/donors", ngoDonors)
}

// ngoDashboard aggregates the NGO's open requirements and the available
// donations in its city, each annotated with distance when both sides
// carry coordinates.
func ngoDashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ngo, err := ngoForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "NGO record not found",
			"message": "No NGO record is linked to this account",
		})
		return
	}

	var requirements []models.NGOFoodRequirement
	database.DB.Where("ngo_id = ? AND status = ?", ngo.ID, models.RequirementStatusPending).
		Order("required_date ASC").
		Find(&requirements)

	query := database.DB.Preload("Donor").
		Where("status = ? AND expiry_date >= ?", models.DonationStatusAvailable, startOfDay(time.Now())).
		Order("expiry_date ASC")
	if ngo.City != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(ngo.City)+"%")
	}

	var donations []models.Donation
	query.Limit(50).Find(&donations)

	nearby := make([]gin.H, 0, len(donations))
	for _, d := range donations {
		entry := donationSummary(d)
		if d.HasCoordinates() && ngo.Latitude != nil && ngo.Longitude != nil {
			entry["distance_km"] = utils.HaversineDistance(
				*d.Latitude, *d.Longitude, *ngo.Latitude, *ngo.Longitude)
		}
		nearby = append(nearby, entry)
	}

	var reservedCount int64
	database.DB.Model(&models.Donation{}).
		Where("ngo_id = ? AND status = ?", ngo.ID, models.DonationStatusReserved).
		Count(&reservedCount)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"ngo":                ngo,
			"requirements":       requirements,
			"nearby_donations":   nearby,
			"reserved_donations": reservedCount,
		},
	})
}

// ngoImpact sums what the NGO has actually received: completed donations,
// total servings, and the calorie/protein approximations from the
// nutrition estimates. Heuristic numbers in, heuristic numbers out.
func ngoImpact(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ngo, err := ngoForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "NGO record not found",
			"message": "No NGO record is linked to this account",
		})
		return
	}

	var received []models.Donation
	database.DB.Where("ngo_id = ? AND status = ?", ngo.ID, models.DonationStatusPickedUp).
		Find(&received)

	totalServings := 0
	totalCalories := 0.0
	totalProtein := 0.0
	for _, d := range received {
		totalServings += d.Quantity
		totalCalories += d.NutritionalInfo.FloatValue("calories")
		totalProtein += d.NutritionalInfo.FloatValue("protein")
	}

	var fulfilledRequirements int64
	database.DB.Model(&models.NGOFoodRequirement{}).
		Where("ngo_id = ? AND status = ?", ngo.ID, models.RequirementStatusFulfilled).
		Count(&fulfilledRequirements)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"donations_received":     len(received),
			"total_servings":         totalServings,
			"total_calories":         totalCalories,
			"total_protein":          totalProtein,
			"fulfilled_requirements": fulfilledRequirements,
		},
	})
}

// ngoHistory lists the donations this NGO has claimed, newest first
func ngoHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ngo, err := ngoForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "NGO record not found",
			"message": "No NGO record is linked to this account",
		})
		return
	}

	var donations []models.Donation
	if err := database.DB.Preload("Donor").
		Where("ngo_id = ?", ngo.ID).
		Order("updated_at DESC").
		Find(&donations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load donation history",
		})
		return
	}

	results := make([]gin.H, 0, len(donations))
	for _, d := range donations {
		results = append(results, donationSummary(d))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// ngoDonors lists donors active on the platform so NGOs can reach out
// directly.
func ngoDonors(c *gin.Context) {
	var donors []models.Donor
	query := database.DB.Order("created_at DESC")
	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if err := query.Find(&donors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load donors",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    donors,
	})
}
