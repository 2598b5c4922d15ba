package services

import (
	"log"

	"gorm.io/gorm"

	"food-donation-server/models"
	"food-donation-server/utils"
)

// NotificationService records in-app notifications and forwards email
// notices. Failures are swallowed by design: a notification that cannot be
// delivered must never fail the business operation that triggered it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// ShowInAppAlert creates an in-app notification for the user.
func (s *NotificationService) ShowInAppAlert(userID uint, notificationType, title, message string, metadata models.JSONMap) {
	if metadata == nil {
		metadata = models.JSONMap{}
	}

	notification := models.Notification{
		UserID:   userID,
		Type:     notificationType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("⚠️ Failed to create notification for user %d: %v", userID, err)
	}
}

// NotifyUser raises an in-app alert and an email notice in one call.
func (s *NotificationService) NotifyUser(user *models.User, notificationType, title, message string, metadata models.JSONMap) {
	if user == nil {
		return
	}
	s.ShowInAppAlert(user.ID, notificationType, title, message, metadata)
	if user.Email != "" {
		// best effort; errors already logged by the mailer
		_ = utils.SendEmailNotification(user.Email, title, message)
	}
}
