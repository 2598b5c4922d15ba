package models

import "time"

type RequirementStatus string

const (
	RequirementStatusPending   RequirementStatus = "Pending"
	RequirementStatusFulfilled RequirementStatus = "Fulfilled"
	RequirementStatusCancelled RequirementStatus = "Cancelled"
)

// NGOFoodRequirement is an NGO-declared future need for food by a date/time.
// Fulfillment bookkeeping is a manual administrative step; the matching
// engine only reads these records.
type NGOFoodRequirement struct {
	ID                uint              `json:"id" gorm:"primaryKey"`
	NGOID             uint              `json:"ngo_id" gorm:"not null;index"`
	RequiredDate      time.Time         `json:"required_date" gorm:"not null;index:idx_requirements_date_status,priority:1"`
	RequiredTime      string            `json:"required_time" gorm:"size:8"` // HH:MM:SS
	EstimatedServings int               `json:"estimated_servings" gorm:"not null;check:estimated_servings > 0"`
	Description       string            `json:"description" gorm:"type:text"`
	Status            RequirementStatus `json:"status" gorm:"type:varchar(20);default:'Pending';index:idx_requirements_date_status,priority:2"`
	FulfilledByID     *uint             `json:"fulfilled_by_id"`
	CreatedAt         time.Time         `json:"created_at" gorm:"autoCreateTime"`

	// Relations
	NGO         NGO       `json:"ngo,omitempty" gorm:"foreignKey:NGOID"`
	FulfilledBy *Donation `json:"fulfilled_by,omitempty" gorm:"foreignKey:FulfilledByID"`
}

func (NGOFoodRequirement) TableName() string {
	return "ngo_food_requirements"
}
