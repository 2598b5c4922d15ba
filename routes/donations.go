package routes

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/middleware"
	"food-donation-server/models"
	"food-donation-server/services"
	"food-donation-server/utils"
)

// CreateDonationRequest represents a donor's food listing submission
type CreateDonationRequest struct {
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description"`
	Quantity        int            `json:"quantity" binding:"required"`
	Unit            string         `json:"unit"`
	Location        string         `json:"location" binding:"required"`
	Latitude        *float64       `json:"latitude"`
	Longitude       *float64       `json:"longitude"`
	ExpiryDate      string         `json:"expiry_date" binding:"required"` // YYYY-MM-DD
	PickupBy        *time.Time     `json:"pickup_by"`
	NutritionalInfo models.JSONMap `json:"nutritional_info"`
}

// CreatePickupRequestBody represents an NGO's claim on a donation
type CreatePickupRequestBody struct {
	RequesterName   string     `json:"requester_name"`
	RequesterEmail  string     `json:"requester_email"`
	RequesterPhone  string     `json:"requester_phone"`
	ScheduledPickup *time.Time `json:"scheduled_pickup"`
	Notes           string     `json:"notes"`
}

// RegisterPublicDonationRoutes registers the unauthenticated listing routes
func RegisterPublicDonationRoutes(router *gin.RouterGroup) {
	router.GET("/donations", listDonations)
	router.GET("/donations/:id", getDonation)
}

// RegisterDonationRoutes registers the authenticated donation routes
func RegisterDonationRoutes(router *gin.RouterGroup) {
	router.POST("/donations",
		middleware.RoleRequired(models.RoleDonor), createDonation)
	router.POST("/donations/:id/photo",
		middleware.RoleRequired(models.RoleDonor, models.RoleAdmin), uploadDonationPhoto)
	router.POST("/donations/:id/pickup-requests",
		middleware.RoleRequired(models.RoleNGO), createPickupRequest)
}

// donationSummary builds the listing representation of a donation,
// including the computed expire-priority label.
func donationSummary(d models.Donation) gin.H {
	var donorName interface{}
	if d.Donor != nil {
		donorName = d.Donor.Name
	}

	nutritionalInfo := d.NutritionalInfo
	if nutritionalInfo == nil {
		nutritionalInfo = models.JSONMap{}
	}

	return gin.H{
		"id":               d.ID,
		"title":            d.Title,
		"description":      d.Description,
		"quantity":         d.Quantity,
		"unit":             d.Unit,
		"location":         d.Location,
		"latitude":         d.Latitude,
		"longitude":        d.Longitude,
		"expiry_date":      d.ExpiryDate.Format(time.RFC3339),
		"status":           d.Status,
		"nutritional_info": nutritionalInfo,
		"donor_name":       donorName,
		"image_url":        d.ImageURL,
		"created_at":       d.CreatedAt.Format(time.RFC3339),
		"expire_priority":  utils.ExpirePriorityToday(d.ExpiryDate),
	}
}

// listDonations serves the public donation listing with pagination and
// filters. The location filter falls back to the session-scoped value when
// the query parameter is absent; the expiry filter maps a priority label
// onto a date window so it can run in SQL alongside pagination.
func listDonations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "12"))
	if perPage < 1 || perPage > 100 {
		perPage = 12
	}

	query := database.DB.Model(&models.Donation{}).
		Preload("Donor").
		Where("status = ?", models.DonationStatusAvailable)

	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		location = sessionLocation(c)
	}
	if location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	today := startOfDay(time.Now())
	switch c.Query("expiry") {
	case utils.PriorityUrgent:
		query = query.Where("expiry_date >= ? AND expiry_date < ?", today, today.AddDate(0, 0, 1))
	case utils.PrioritySoon:
		query = query.Where("expiry_date >= ? AND expiry_date < ?", today.AddDate(0, 0, 1), today.AddDate(0, 0, 2))
	case utils.PriorityFresh:
		query = query.Where("expiry_date >= ?", today.AddDate(0, 0, 2))
	default:
		// Unfiltered listing still hides already-expired food
		query = query.Where("expiry_date >= ?", today)
	}

	switch c.DefaultQuery("sort", "created_at") {
	case "expiry":
		query = query.Order("expiry_date ASC")
	case "quantity":
		query = query.Order("quantity DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to count donations",
		})
		return
	}

	var donations []models.Donation
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&donations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load donations",
		})
		return
	}

	pages := int((count + int64(perPage) - 1) / int64(perPage))
	results := make([]gin.H, 0, len(donations))
	for _, d := range donations {
		results = append(results, donationSummary(d))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    count,
		"page":     page,
		"pages":    pages,
		"per_page": perPage,
		"results":  results,
	})
}

// getDonation serves the donation detail with its open pickup requests
func getDonation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid donation id",
			"message": "Donation id must be numeric",
		})
		return
	}

	var donation models.Donation
	if err := database.DB.Preload("Donor").Preload("NGO").First(&donation, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Donation not found",
			"message": "No donation with that id",
		})
		return
	}

	// The owning donor sees the full request history; everyone else only
	// the open ones. Requires OptionalAuthMiddleware upstream.
	owner := false
	if user, ok := middleware.CurrentUser(c); ok {
		if donor, err := donorForUser(user.ID); err == nil &&
			donation.DonorID != nil && *donation.DonorID == donor.ID {
			owner = true
		}
	}

	requestQuery := database.DB.Where("donation_id = ?", donation.ID)
	if !owner {
		requestQuery = requestQuery.Where("status IN ?",
			[]models.PickupStatus{models.PickupStatusPending, models.PickupStatusApproved})
	}

	var requests []models.PickupRequest
	requestQuery.Order("requested_at DESC").Find(&requests)

	detail := donationSummary(donation)
	detail["pickup_requests"] = requests
	if donation.PickupBy != nil {
		detail["pickup_by"] = donation.PickupBy.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
	})
}

// createDonation lists a new batch of surplus food and runs the matching
// engine against pending NGO requirements.
func createDonation(c *gin.Context) {
	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid quantity",
			"message": "Quantity must be greater than zero",
		})
		return
	}

	expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid expiry date",
			"message": "Expiry date must be in YYYY-MM-DD format",
		})
		return
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Incomplete coordinates",
			"message": "Provide both latitude and longitude, or neither",
		})
		return
	}
	if req.Latitude != nil && !utils.IsLocationValid(*req.Latitude, *req.Longitude) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid coordinates",
			"message": "Latitude must be within ±90 and longitude within ±180",
		})
		return
	}

	user, _ := middleware.CurrentUser(c)
	donor, err := donorForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Donor record not found",
			"message": "No donor record is linked to this account",
		})
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "servings"
	}

	donation := models.Donation{
		DonorID:         &donor.ID,
		Title:           req.Title,
		Description:     req.Description,
		Quantity:        req.Quantity,
		Unit:            unit,
		Location:        req.Location,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ExpiryDate:      expiryDate,
		Status:          models.DonationStatusAvailable,
		NutritionalInfo: req.NutritionalInfo,
		PickupBy:        req.PickupBy,
	}

	if err := database.DB.Create(&donation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Donation creation failed",
			"message": "Failed to create donation",
		})
		return
	}

	// Confirm to the donor, then look for NGOs it could feed
	notifications := services.NewNotificationService(database.DB)
	notifications.ShowInAppAlert(user.ID, models.NotificationDonationConfirmed,
		"Donation Listed",
		fmt.Sprintf("Your donation %q (%d %s) is now listed.", donation.Title, donation.Quantity, donation.Unit),
		models.JSONMap{"donation_id": donation.ID})

	matcher := services.NewMatchingService(database.DB)
	matches := matcher.MatchDonationToRequirements(&donation)

	log.Printf("✅ Donation %d created by donor %d, %d requirement match(es)", donation.ID, donor.ID, len(matches))

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Donation created successfully",
		"data":         donationSummary(donation),
		"matched_ngos": len(matches),
	})
}

// createPickupRequest lets an approved NGO claim an available donation.
// The donation moves to Reserved, the NGO is linked, and the donor gets a
// best-effort notification.
func createPickupRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid donation id",
			"message": "Donation id must be numeric",
		})
		return
	}

	var req CreatePickupRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var donation models.Donation
	if err := database.DB.Preload("Donor").First(&donation, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Donation not found",
			"message": "No donation with that id",
		})
		return
	}

	if donation.Status != models.DonationStatusAvailable {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Donation unavailable",
			"message": fmt.Sprintf("Donation is %s and cannot be requested", donation.Status),
		})
		return
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

	requesterName := req.RequesterName
	if requesterName == "" {
		requesterName = ngo.Name
	}
	requesterEmail := req.RequesterEmail
	if requesterEmail == "" {
		requesterEmail = ngo.Email
	}
	requesterPhone := req.RequesterPhone
	if requesterPhone == "" {
		requesterPhone = ngo.Phone
	}

	pickup := models.PickupRequest{
		DonationID:      donation.ID,
		RequesterID:     &user.ID,
		RequesterName:   requesterName,
		RequesterEmail:  requesterEmail,
		RequesterPhone:  requesterPhone,
		Status:          models.PickupStatusPending,
		ScheduledPickup: req.ScheduledPickup,
		Notes:           req.Notes,
	}

	if err := database.DB.Create(&pickup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Pickup request failed",
			"message": "Failed to create pickup request",
		})
		return
	}

	donation.Status = models.DonationStatusReserved
	donation.NGOID = &ngo.ID
	if err := database.DB.Save(&donation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Reservation failed",
			"message": "Failed to reserve donation",
		})
		return
	}

	// Tell the donor their food has a taker
	if donation.Donor != nil && donation.Donor.UserID != nil {
		var donorUser models.User
		if err := database.DB.First(&donorUser, *donation.Donor.UserID).Error; err == nil {
			services.NewNotificationService(database.DB).NotifyUser(&donorUser,
				models.NotificationDonationAccepted,
				"Pickup Requested",
				fmt.Sprintf("%s wants to pick up your donation %q.", ngo.Name, donation.Title),
				models.JSONMap{
					"donation_id":       donation.ID,
					"pickup_request_id": pickup.ID,
					"ngo_id":            ngo.ID,
				})
		}
	}

	log.Printf("✅ Pickup request %d created by NGO %d for donation %d", pickup.ID, ngo.ID, donation.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pickup request created; donation reserved",
		"data":    pickup,
	})
}

// validateImageFile validates mimetype and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// uploadDonationPhoto attaches a photo to a donation via Cloudinary.
// Donors may only upload to their own donations; admins to any.
func uploadDonationPhoto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid donation id",
			"message": "Donation id must be numeric",
		})
		return
	}

	var donation models.Donation
	if err := database.DB.First(&donation, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Donation not found",
			"message": "No donation with that id",
		})
		return
	}

	user, _ := middleware.CurrentUser(c)
	profile, _ := middleware.CurrentProfile(c)
	if !profile.IsAdmin() {
		donor, err := donorForUser(user.ID)
		if err != nil || donation.DonorID == nil || *donation.DonorID != donor.ID {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Access denied",
				"message": "You can only upload photos to your own donations",
			})
			return
		}
	}

	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No file provided",
			"message": "Attach the image as multipart field 'photo'",
		})
		return
	}

	if !validateImageFile(header) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid image",
			"message": "Image must be jpg, jpeg, png or webp and at most 5MB",
		})
		return
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Upload unavailable",
			"message": "Media uploads are not configured",
		})
		return
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Upload unavailable",
			"message": "Media service initialization failed",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unreadable file",
			"message": "Failed to read the uploaded image",
		})
		return
	}
	defer file.Close()

	ow := true
	uf := true
	up, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		Folder:         "donations/" + strconv.Itoa(int(donation.ID)),
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &ow,
		UniqueFilename: &uf,
		ResourceType:   "image",
	})
	if err != nil {
		log.Printf("❌ Donation photo upload failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Upload failed",
			"message": "Failed to upload the image",
		})
		return
	}

	donation.ImageURL = up.SecureURL
	if err := database.DB.Save(&donation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Save failed",
			"message": "Failed to save the image URL",
		})
		return
	}

	log.Printf("✅ Photo uploaded for donation %d", donation.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"image_url": up.SecureURL},
	})
}

// startOfDay matches the truncation the priority classifier uses, so the
// SQL expiry windows agree with the computed expire_priority labels.
func startOfDay(t time.Time) time.Time {
	return utils.StartOfDay(t)
}

// donorForUser resolves the donor record linked to an account
func donorForUser(userID uint) (*models.Donor, error) {
	var donor models.Donor
	if err := database.DB.Where("user_id = ?", userID).First(&donor).Error; err != nil {
		return nil, err
	}
	return &donor, nil
}

// ngoForUser resolves the NGO record linked to an account
func ngoForUser(userID uint) (*models.NGO, error) {
	var ngo models.NGO
	if err := database.DB.Where("user_id = ?", userID).First(&ngo).Error; err != nil {
		return nil, err
	}
	return &ngo, nil
}
