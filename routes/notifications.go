package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/middleware"
	"food-donation-server/models"
)

// RegisterNotificationRoutes registers the in-app notification routes
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	router.GET("/notifications", listNotifications)
	router.GET("/notifications/unread-count", unreadNotificationCount)
	router.POST("/notifications/:id/read", markNotificationRead)
	router.POST("/notifications/read-all", markAllNotificationsRead)
}

// listNotifications shows the caller's notifications, newest first
func listNotifications(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	query := database.DB.Where("user_id = ?", user.ID).Order("created_at DESC")
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Limit(100).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to load notifications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// unreadNotificationCount serves the badge number
func unreadNotificationCount(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Query failed",
			"message": "Failed to count notifications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"unread": count},
	})
}

// markNotificationRead marks one of the caller's notifications as read
func markNotificationRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid notification id",
			"message": "Notification id must be numeric",
		})
		return
	}

	user, _ := middleware.CurrentUser(c)

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Notification not found",
			"message": "No notification with that id for this account",
		})
		return
	}

	if !notification.IsRead {
		notification.IsRead = true
		if err := database.DB.Save(&notification).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Update failed",
				"message": "Failed to mark notification as read",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notification,
	})
}

// markAllNotificationsRead clears the caller's unread badge in one call
func markAllNotificationsRead(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Update failed",
			"message": "Failed to mark notifications as read",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"marked_read": result.RowsAffected},
	})
}
