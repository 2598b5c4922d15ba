package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// Payment records a monetary donation processed by an external gateway.
// Rows are upserted by the gateway callback keyed on PaymentID.
type Payment struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	DonorID      *uint         `json:"donor_id" gorm:"index"`
	Amount       float64       `json:"amount" gorm:"not null"`
	PaymentID    string        `json:"payment_id" gorm:"size:200;uniqueIndex;not null"` // gateway transaction id
	Gateway      string        `json:"gateway" gorm:"size:50;default:'Manual'"`         // Razorpay, Stripe, PayU, Manual
	Status       PaymentStatus `json:"status" gorm:"type:varchar(20);default:'Pending'"`
	ReceiptSent  bool          `json:"receipt_sent" gorm:"default:false"`
	ReceiptEmail string        `json:"receipt_email" gorm:"size:255"`
	Metadata     JSONMap       `json:"metadata" gorm:"type:text"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt  *time.Time    `json:"completed_at"`

	// Relations
	Donor *Donor `json:"donor,omitempty" gorm:"foreignKey:DonorID"`
}

func (Payment) TableName() string {
	return "payments"
}
