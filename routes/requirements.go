package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/middleware"
	"food-donation-server/models"
	"food-donation-server/services"
)

// CreateRequirementRequest represents an NGO's declared future need
type CreateRequirementRequest struct {
	RequiredDate      string `json:"required_date" binding:"required"` // YYYY-MM-DD
	RequiredTime      string `json:"required_time"`                    // HH:MM:SS
	EstimatedServings int    `json:"estimated_servings" binding:"required"`
	Description       string `json:"description"`
}

// FulfilRequirementRequest optionally links the donation that covered it
type FulfilRequirementRequest struct {
	DonationID *uint `json:"donation_id"`
}

// RegisterRequirementRoutes registers the requirement calendar routes
func RegisterRequirementRoutes(router *gin.RouterGroup) {
	router.GET("/requirements", listRequirements)
	router.POST("/requirements",
		middleware.RoleRequired(models.RoleNGO), createRequirement)
	router.POST("/requirements/:id/fulfil",
		middleware.RoleRequired(models.RoleAdmin), fulfilRequirement)
	router.POST("/requirements/:id/cancel", cancelRequirement)
}

// listRequirements shows the requirement calendar. NGOs see their own,
// admins see everything, donors see pending requirements (so they know
// where need exists).
func listRequirements(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	profile, _ := middleware.CurrentProfile(c)

	query := database.DB.Preload("NGO").Order("required_date ASC")

	switch {
	case profile.IsAdmin():
		// unrestricted
	case profile.IsNGO():
		ngo, err := ngoForUser(user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "NGO record not found",
				"message": "No NGO record is linked to this account",
			})
			return
		}
		query = query.Where("ngo_id = ?", ngo.ID)
	default:
		query = query.Where("status = ?", models.RequirementStatusPending)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requirements []models.NGOFoodRequirement
	if err := query.Find(&requirements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load requirements",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requirements,
	})
}

// createRequirement adds an entry to the NGO's requirement calendar and
// alerts donors in the same city that food is needed.
func createRequirement(c *gin.Context) {
	var req CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if req.EstimatedServings <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid servings",
			"message": "Estimated servings must be greater than zero",
		})
		return
	}

	requiredDate, err := time.Parse("2006-01-02", req.RequiredDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid date",
			"message": "Required date must be in YYYY-MM-DD format",
		})
		return
	}

	if req.RequiredTime != "" {
		if _, err := time.Parse("15:04:05", req.RequiredTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid time",
				"message": "Required time must be in HH:MM:SS format",
			})
			return
		}
	}

	user, _ := middleware.CurrentUser(c)
	ngo, err := ngoForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "NGO record not found",
			"message": "No NGO record is linked to this account",
		})
		return
	}

	requirement := models.NGOFoodRequirement{
		NGOID:             ngo.ID,
		RequiredDate:      requiredDate,
		RequiredTime:      req.RequiredTime,
		EstimatedServings: req.EstimatedServings,
		Description:       req.Description,
		Status:            models.RequirementStatusPending,
	}

	if err := database.DB.Create(&requirement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Requirement creation failed",
			"message": "Failed to create requirement",
		})
		return
	}

	notified := notifyCityDonors(ngo, &requirement)

	log.Printf("✅ Requirement %d created by NGO %d, %d donor(s) notified", requirement.ID, ngo.ID, notified)

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         "Requirement created successfully",
		"data":            requirement,
		"donors_notified": notified,
	})
}

// notifyCityDonors raises a best-effort food_shortage alert for every
// donor account in the NGO's city. Failures never fail the creation.
func notifyCityDonors(ngo *models.NGO, requirement *models.NGOFoodRequirement) int {
	if ngo.City == "" {
		return 0
	}

	var donors []models.Donor
	if err := database.DB.Where("LOWER(city) = LOWER(?) AND user_id IS NOT NULL", ngo.City).Find(&donors).Error; err != nil {
		log.Printf("⚠️ Failed to load donors in %s: %v", ngo.City, err)
		return 0
	}

	notifications := services.NewNotificationService(database.DB)
	notified := 0
	for _, donor := range donors {
		var donorUser models.User
		if err := database.DB.First(&donorUser, *donor.UserID).Error; err != nil {
			continue
		}
		notifications.NotifyUser(&donorUser, models.NotificationFoodShortage,
			"Food Needed In Your City",
			fmt.Sprintf("%s needs %d servings by %s.", ngo.Name, requirement.EstimatedServings,
				requirement.RequiredDate.Format("2006-01-02")),
			models.JSONMap{
				"requirement_id": requirement.ID,
				"ngo_id":         ngo.ID,
			})
		notified++
	}
	return notified
}

// fulfilRequirement is manual admin bookkeeping; matching never does this
// automatically.
func fulfilRequirement(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid requirement id",
			"message": "Requirement id must be numeric",
		})
		return
	}

	var req FulfilRequirementRequest
	_ = c.ShouldBindJSON(&req) // body optional

	var requirement models.NGOFoodRequirement
	if err := database.DB.First(&requirement, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Requirement not found",
			"message": "No requirement with that id",
		})
		return
	}

	if requirement.Status != models.RequirementStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Requirement closed",
			"message": fmt.Sprintf("Requirement is already %s", requirement.Status),
		})
		return
	}

	if req.DonationID != nil {
		var donation models.Donation
		if err := database.DB.First(&donation, *req.DonationID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Donation not found",
				"message": "No donation with that id to link as fulfilment",
			})
			return
		}
		requirement.FulfilledByID = req.DonationID
	}

	requirement.Status = models.RequirementStatusFulfilled
	if err := database.DB.Save(&requirement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Update failed",
			"message": "Failed to mark requirement fulfilled",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Requirement marked fulfilled",
		"data":    requirement,
	})
}

// cancelRequirement closes a requirement. The owning NGO or an admin may
// cancel; cancelled entries stay on record for the calendar history.
func cancelRequirement(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid requirement id",
			"message": "Requirement id must be numeric",
		})
		return
	}

	var requirement models.NGOFoodRequirement
	if err := database.DB.Preload("NGO").First(&requirement, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Requirement not found",
			"message": "No requirement with that id",
		})
		return
	}

	user, _ := middleware.CurrentUser(c)
	profile, _ := middleware.CurrentProfile(c)
	if !profile.IsAdmin() {
		if requirement.NGO.UserID == nil || *requirement.NGO.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Access denied",
				"message": "Only the owning NGO can cancel this requirement",
			})
			return
		}
	}

	if requirement.Status != models.RequirementStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Requirement closed",
			"message": fmt.Sprintf("Requirement is already %s", requirement.Status),
		})
		return
	}

	requirement.Status = models.RequirementStatusCancelled
	if err := database.DB.Save(&requirement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Update failed",
			"message": "Failed to cancel requirement",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Requirement cancelled",
		"data":    requirement,
	})
}
