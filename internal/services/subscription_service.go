// internal/services/subscription_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/staffhub/staffhub-backend/internal/config"
	"github.com/staffhub/staffhub-backend/internal/models"
)

type SubscriptionService struct {
	db     *gorm.DB
	config *config.Config
}

type SubscribeRequest struct {
	PlanCode string `json:"plan_code" validate:"required"`
}

type SubscribeResponse struct {
	Subscription *models.Subscription `json:"subscription"`
	ClientSecret string               `json:"client_secret,omitempty"`
}

type ConfirmSubscriptionRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewSubscriptionService(db *gorm.DB, cfg *config.Config) *SubscriptionService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &SubscriptionService{
		db:     db,
		config: cfg,
	}
}

func (s *SubscriptionService) ListPlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := s.db.Where("is_active = ?", true).Order("price_monthly ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch plans: %w", err)
	}
	return plans, nil
}

// GetCurrent returns the organization's live subscription, or nil when it has
// none.
func (s *SubscriptionService) GetCurrent(orgID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Preload("Plan").
		Where("organization_id = ? AND status IN (?, ?, ?)", orgID,
			models.SubscriptionStatusTrialing, models.SubscriptionStatusActive, models.SubscriptionStatusPastDue).
		Order("created_at DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &sub, nil
}

// Subscribe starts a subscription on the named plan. Paid plans get a Stripe
// customer plus a payment intent for the first period; the subscription stays
// trialing until the payment is confirmed.
func (s *SubscriptionService) Subscribe(orgID uuid.UUID, req *SubscribeRequest) (*SubscribeResponse, error) {
	var plan models.SubscriptionPlan
	if err := s.db.Where("code = ? AND is_active = ?", req.PlanCode, true).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("plan not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	existing, err := s.GetCurrent(orgID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.PlanID == plan.ID {
		return nil, errors.New("organization is already on this plan")
	}

	var org models.Organization
	if err := s.db.First(&org, orgID).Error; err != nil {
		return nil, errors.New("organization not found")
	}

	now := time.Now()
	sub := &models.Subscription{
		OrganizationID:     orgID,
		PlanID:             plan.ID,
		Status:             models.SubscriptionStatusTrialing,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, s.config.Payment.TrialDays),
	}

	var clientSecret string
	if plan.PriceMonthly > 0 {
		stripeCustomerID := ""
		if existing != nil {
			stripeCustomerID = existing.StripeCustomerID
		}
		if stripeCustomerID == "" {
			custParams := &stripe.CustomerParams{
				Name:  stripe.String(org.Name),
				Email: stripe.String(org.ContactEmail),
			}
			custParams.AddMetadata("organization_id", orgID.String())
			cust, err := customer.New(custParams)
			if err != nil {
				return nil, fmt.Errorf("failed to create billing customer: %w", err)
			}
			stripeCustomerID = cust.ID
		}
		sub.StripeCustomerID = stripeCustomerID

		amountInCents := int64(plan.PriceMonthly * 100)
		piParams := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(amountInCents),
			Currency: stripe.String("usd"),
			Customer: stripe.String(stripeCustomerID),
		}
		piParams.AddMetadata("organization_id", orgID.String())
		piParams.AddMetadata("plan_code", plan.Code)

		pi, err := paymentintent.New(piParams)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment intent: %w", err)
		}
		sub.PaymentReference = pi.ID
		clientSecret = pi.ClientSecret
	} else {
		// Free plan activates immediately
		sub.Status = models.SubscriptionStatusActive
		sub.CurrentPeriodEnd = now.AddDate(0, 1, 0)
	}

	if err := s.db.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	// Supersede the previous subscription
	if existing != nil {
		existing.Status = models.SubscriptionStatusCancelled
		existing.CancelledAt = &now
		if err := s.db.Save(existing).Error; err != nil {
			return nil, fmt.Errorf("failed to cancel previous subscription: %w", err)
		}
	}

	sub.Plan = plan
	return &SubscribeResponse{Subscription: sub, ClientSecret: clientSecret}, nil
}

// ConfirmSubscription checks the payment intent with Stripe and activates the
// subscription when the first period's payment succeeded.
func (s *SubscriptionService) ConfirmSubscription(orgID uuid.UUID, req *ConfirmSubscriptionRequest) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Preload("Plan").
		Where("organization_id = ? AND payment_reference = ?", orgID, req.PaymentIntentID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("subscription not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	now := time.Now()
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		sub.Status = models.SubscriptionStatusActive
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = now.AddDate(0, 1, 0)
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		// Leave trialing; the client retries confirmation
	default:
		sub.Status = models.SubscriptionStatusPastDue
	}

	if err := s.db.Save(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	return &sub, nil
}

// Cancel marks the subscription to lapse at the end of the current period.
func (s *SubscriptionService) Cancel(orgID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.GetCurrent(orgID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("no active subscription")
	}
	if sub.CancelAtPeriodEnd {
		return nil, errors.New("subscription is already set to cancel")
	}

	now := time.Now()
	sub.CancelAtPeriodEnd = true
	sub.CancelledAt = &now
	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	return sub, nil
}

// CheckJobPostAllowance enforces the plan's job posting limit for the current
// period. Organizations without a subscription cannot post.
func (s *SubscriptionService) CheckJobPostAllowance(orgID uuid.UUID) error {
	sub, err := s.GetCurrent(orgID)
	if err != nil {
		return err
	}
	if sub == nil {
		return errors.New("an active subscription is required to post jobs")
	}
	if sub.Plan.JobPostLimit == 0 {
		return nil
	}

	var posted int64
	err = s.db.Model(&models.JobPosting{}).
		Where("company_id = ? AND created_at >= ?", orgID, sub.CurrentPeriodStart).
		Count(&posted).Error
	if err != nil {
		return fmt.Errorf("failed to count job postings: %w", err)
	}
	if int(posted) >= sub.Plan.JobPostLimit {
		return fmt.Errorf("job posting limit of %d reached for the current period", sub.Plan.JobPostLimit)
	}

	return nil
}
