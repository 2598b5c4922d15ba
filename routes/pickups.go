package routes

import (
	"errors"
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

// RegisterPickupRoutes registers the pickup-request lifecycle routes
func RegisterPickupRoutes(router *gin.RouterGroup) {
	router.GET("/pickup-requests", listPickupRequests)
	router.POST("/pickup-requests/:id/approve", transitionHandler(models.PickupStatusApproved))
	router.POST("/pickup-requests/:id/reject", transitionHandler(models.PickupStatusRejected))
	router.POST("/pickup-requests/:id/cancel", transitionHandler(models.PickupStatusCancelled))
	router.POST("/pickup-requests/:id/complete", transitionHandler(models.PickupStatusCompleted))
}

// listPickupRequests shows the requests visible to the caller: donors see
// requests against their donations, NGOs see their own requests, admins
// see everything.
func listPickupRequests(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	profile, _ := middleware.CurrentProfile(c)

	query := database.DB.Preload("Donation").Order("requested_at DESC")

	switch {
	case profile.IsAdmin():
		// unrestricted
	case profile.IsNGO():
		query = query.Where("requester_id = ?", user.ID)
	default:
		donor, err := donorForUser(user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Donor record not found",
				"message": "No donor record is linked to this account",
			})
			return
		}
		query = query.Where("donation_id IN (?)",
			database.DB.Model(&models.Donation{}).Select("id").Where("donor_id = ?", donor.ID))
	}

	var requests []models.PickupRequest
	if err := query.Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load pickup requests",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// transitionHandler builds a handler that moves a pickup request into the
// given status after checking the caller may perform that transition.
// Approve/reject/complete belong to the donation's donor (or an admin);
// cancel belongs to the requesting NGO (or an admin).
func transitionHandler(target models.PickupStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid pickup request id",
				"message": "Pickup request id must be numeric",
			})
			return
		}

		var request models.PickupRequest
		if err := database.DB.Preload("Donation").First(&request, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Pickup request not found",
				"message": "No pickup request with that id",
			})
			return
		}

		user, _ := middleware.CurrentUser(c)
		profile, _ := middleware.CurrentProfile(c)

		if !profile.IsAdmin() {
			if target == models.PickupStatusCancelled {
				if request.RequesterID == nil || *request.RequesterID != user.ID {
					c.JSON(http.StatusForbidden, gin.H{
						"error":   "Access denied",
						"message": "Only the requesting NGO can cancel this pickup request",
					})
					return
				}
			} else {
				donor, err := donorForUser(user.ID)
				if err != nil || request.Donation.DonorID == nil || *request.Donation.DonorID != donor.ID {
					c.JSON(http.StatusForbidden, gin.H{
						"error":   "Access denied",
						"message": "Only the donation's donor can manage this pickup request",
					})
					return
				}
			}
		}

		pickups := services.NewPickupService(database.DB)
		if err := pickups.Transition(&request, target); err != nil {
			if errors.Is(err, services.ErrPickupTerminal) {
				c.JSON(http.StatusConflict, gin.H{
					"error":   "Pickup request closed",
					"message": fmt.Sprintf("Pickup request is already %s", request.Status),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Transition failed",
				"message": "Failed to update pickup request",
			})
			return
		}

		// Rejection and cancellation release the reservation
		if target == models.PickupStatusRejected || target == models.PickupStatusCancelled {
			releaseDonation(&request)
		}

		if target == models.PickupStatusApproved {
			notifyRequester(&request, models.NotificationPickupScheduled,
				"Pickup Approved",
				fmt.Sprintf("Your pickup request for %q was approved.", request.Donation.Title))
		}

		log.Printf("✅ Pickup request %d moved to %s", request.ID, target)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Pickup request %s", target),
			"data":    request,
		})
	}
}

// releaseDonation puts a reserved donation back on the listing after its
// pickup request fell through. Donations already picked up or expired are
// left alone.
func releaseDonation(request *models.PickupRequest) {
	var donation models.Donation
	if err := database.DB.First(&donation, request.DonationID).Error; err != nil {
		return
	}
	if donation.Status != models.DonationStatusReserved {
		return
	}

	donation.Status = models.DonationStatusAvailable
	donation.NGOID = nil
	if err := database.DB.Save(&donation).Error; err != nil {
		log.Printf("⚠️ Failed to release donation %d: %v", donation.ID, err)
	}
}

// notifyRequester raises a best-effort notification for the account that
// filed the pickup request.
func notifyRequester(request *models.PickupRequest, notificationType, title, message string) {
	if request.RequesterID == nil {
		return
	}
	var requester models.User
	if err := database.DB.First(&requester, *request.RequesterID).Error; err != nil {
		return
	}
	services.NewNotificationService(database.DB).NotifyUser(&requester, notificationType, title, message,
		models.JSONMap{
			"donation_id":       request.DonationID,
			"pickup_request_id": request.ID,
		})
}
