package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"food-donation-server/database"
	"food-donation-server/models"
)

func TestPaymentCallbackUpsertsByTransactionID(t *testing.T) {
	router := setupTestRouter(t)

	// First delivery creates the row
	w := doJSON(router, http.MethodPost, "/api/v1/payments/callback", "", gin.H{
		"payment_id": "txn_001",
		"status":     "Pending",
		"amount":     500.0,
		"gateway":    "Razorpay",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("callback status = %d: %s", w.Code, w.Body.String())
	}

	// Second delivery for the same transaction updates it
	w = doJSON(router, http.MethodPost, "/api/v1/payments/callback", "", gin.H{
		"payment_id": "txn_001",
		"status":     "Completed",
		"amount":     500.0,
		"gateway":    "Razorpay",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second callback status = %d: %s", w.Code, w.Body.String())
	}

	var count int64
	database.DB.Model(&models.Payment{}).Where("payment_id = ?", "txn_001").Count(&count)
	if count != 1 {
		t.Fatalf("payments for txn_001 = %d, want 1 (upsert, not insert)", count)
	}

	var payment models.Payment
	database.DB.Where("payment_id = ?", "txn_001").First(&payment)
	if payment.Status != models.PaymentStatusCompleted {
		t.Errorf("status = %s, want Completed", payment.Status)
	}
	if payment.CompletedAt == nil {
		t.Errorf("Completed status must stamp completed_at")
	}

	// Replays do not move the completion timestamp
	stamped := *payment.CompletedAt
	w = doJSON(router, http.MethodPost, "/api/v1/payments/callback", "", gin.H{
		"payment_id": "txn_001",
		"status":     "Completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d", w.Code)
	}
	database.DB.Where("payment_id = ?", "txn_001").First(&payment)
	if payment.CompletedAt == nil || !payment.CompletedAt.Equal(stamped) {
		t.Errorf("completed_at changed on replay")
	}
}

func TestPaymentCallbackRejectsUnknownStatus(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/payments/callback", "", gin.H{
		"payment_id": "txn_002",
		"status":     "Teleported",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status code = %d, want 400", w.Code)
	}
}

func TestGetPaymentByTransactionID(t *testing.T) {
	router := setupTestRouter(t)

	payment := models.Payment{
		PaymentID: "txn_003",
		Amount:    250,
		Gateway:   "Stripe",
		Status:    models.PaymentStatusCompleted,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		t.Fatalf("failed to seed payment: %v", err)
	}

	w := doJSON(router, http.MethodGet, "/api/v1/payments/txn_003", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get payment status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodGet, "/api/v1/payments/txn_missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing payment status = %d, want 404", w.Code)
	}
}
