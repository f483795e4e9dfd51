package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Subscription statuses. Allowed transitions: trial|active -> past_due -> expired.
const (
	SubscriptionStatusTrial    = "trial"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusExpired  = "expired"
	SubscriptionStatusCanceled = "canceled"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// SubscriptionPlan is a sellable plan
// Table: subscription_plans
// PriceYearly is optional; when absent the yearly price is PriceMonthly * 12
type SubscriptionPlan struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"type:varchar(100);not null" json:"name"`
	PriceMonthly decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price_monthly"`
	PriceYearly  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"price_yearly,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (SubscriptionPlan) TableName() string { return "subscription_plans" }

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// SubscriptionPlanFilter represents filter criteria for plan queries
type SubscriptionPlanFilter struct {
	Name *string `json:"name,omitempty"`
}

// Subscription is a company's billing relationship
// Table: company_subscriptions
// Mutated only by the expiry check; read by the revenue rollup
type Subscription struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	PlanID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_id"`
	Status             string     `gorm:"type:varchar(20);not null;index" json:"status"`
	BillingCycle       string     `gorm:"type:varchar(10);not null;default:'monthly'" json:"billing_cycle"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   time.Time  `gorm:"not null;index" json:"current_period_end"`
	GracePeriodEnd     *time.Time `json:"grace_period_end,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Relations
	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
}

func (Subscription) TableName() string { return "company_subscriptions" }

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}
	return nil
}

// SubscriptionFilter represents filter criteria for subscription queries
type SubscriptionFilter struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Statuses  []string   `json:"statuses,omitempty"`
	// PeriodEndAfter is exclusive, PeriodEndNotAfter inclusive, PeriodEndBefore exclusive
	PeriodEndAfter    *time.Time `json:"period_end_after,omitempty"`
	PeriodEndNotAfter *time.Time `json:"period_end_not_after,omitempty"`
	PeriodEndBefore   *time.Time `json:"period_end_before,omitempty"`
	PreloadPlan       bool       `json:"-"`
}
