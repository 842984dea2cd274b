// internal/models/subscription.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	BaseModel
	Code         string  `json:"code" gorm:"size:50;uniqueIndex;not null"`
	Name         string  `json:"name" gorm:"size:100;not null"`
	Description  string  `json:"description" gorm:"type:text"`
	PriceMonthly float64 `json:"price_monthly" gorm:"type:decimal(10,2);not null"`
	Currency     string  `json:"currency" gorm:"size:3;default:'USD'"`
	JobPostLimit int     `json:"job_post_limit" gorm:"default:0"` // 0 = unlimited
	SeatLimit    int     `json:"seat_limit" gorm:"default:0"`
	Features     JSONB   `json:"features" gorm:"type:jsonb"`
	IsActive     bool    `json:"is_active" gorm:"default:true"`
}

type Subscription struct {
	BaseModel
	OrganizationID     uuid.UUID          `json:"organization_id" gorm:"type:uuid;not null;index"`
	PlanID             uuid.UUID          `json:"plan_id" gorm:"type:uuid;not null;index"`
	Status             SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'trialing';index"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end" gorm:"default:false"`
	StripeCustomerID   string             `json:"-" gorm:"size:255"`
	PaymentReference   string             `json:"payment_reference,omitempty" gorm:"size:255"`
	CancelledAt        *time.Time         `json:"cancelled_at"`

	// Relationships
	Organization Organization     `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Plan         SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}
