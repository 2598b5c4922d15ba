package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"food-donation-server/database"
	"food-donation-server/models"
	"food-donation-server/utils"
)

// PaymentCallbackRequest is the gateway's webhook payload
type PaymentCallbackRequest struct {
	PaymentID    string         `json:"payment_id" binding:"required"`
	Status       string         `json:"status" binding:"required"`
	Amount       float64        `json:"amount"`
	Gateway      string         `json:"gateway"`
	ReceiptEmail string         `json:"receipt_email"`
	Metadata     models.JSONMap `json:"metadata"`
}

// RegisterPaymentRoutes registers the payment gateway routes. The callback
// is unauthenticated; gateways sign requests out of band.
func RegisterPaymentRoutes(router *gin.RouterGroup) {
	router.POST("/payments/callback", paymentCallback)
	router.GET("/payments/:payment_id", getPayment)
}

// paymentCallback upserts a payment record keyed on the gateway
// transaction id. Re-delivered webhooks update the existing row instead of
// duplicating it; a Completed status stamps the completion time once.
func paymentCallback(c *gin.Context) {
	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	status := models.PaymentStatus(req.Status)
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusCompleted,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status",
			"message": "Status must be one of: Pending, Completed, Failed, Refunded",
		})
		return
	}

	var payment models.Payment
	err := database.DB.Where("payment_id = ?", req.PaymentID).First(&payment).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Query failed",
				"message": "Failed to look up payment",
			})
			return
		}
		payment = models.Payment{
			PaymentID: req.PaymentID,
			Gateway:   "Manual",
		}
	}

	payment.Status = status
	if req.Amount > 0 {
		payment.Amount = req.Amount
	}
	if req.Gateway != "" {
		payment.Gateway = req.Gateway
	}
	if req.ReceiptEmail != "" {
		payment.ReceiptEmail = req.ReceiptEmail
	}
	if req.Metadata != nil {
		payment.Metadata = req.Metadata
	}
	if status == models.PaymentStatusCompleted && payment.CompletedAt == nil {
		now := time.Now()
		payment.CompletedAt = &now
	}

	if err := database.DB.Save(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Save failed",
			"message": "Failed to record payment",
		})
		return
	}

	// Send the receipt once per completed payment
	if status == models.PaymentStatusCompleted && !payment.ReceiptSent && payment.ReceiptEmail != "" {
		if err := utils.SendEmailNotification(payment.ReceiptEmail,
			"Thank you for your donation",
			"Your contribution has been received. Thank you for supporting the fight against food waste."); err == nil {
			payment.ReceiptSent = true
			database.DB.Save(&payment)
		}
	}

	log.Printf("✅ Payment %s recorded as %s", payment.PaymentID, payment.Status)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment recorded",
		"data":    payment,
	})
}

// getPayment serves the thanks-page data for a gateway transaction id
func getPayment(c *gin.Context) {
	var payment models.Payment
	if err := database.DB.Where("payment_id = ?", c.Param("payment_id")).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Payment not found",
			"message": "No payment with that transaction id",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}
