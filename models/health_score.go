package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

const (
	HealthStatusHealthy  = "healthy"
	HealthStatusAtRisk   = "at_risk"
	HealthStatusCritical = "critical"
)

// HealthScore is the composite customer health of one company for one UTC day.
// Table: customer_health_scores
// At most one row per company per UTC calendar day, enforced by the upsert in the repository.
type HealthScore struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID   `gorm:"type:uuid;not null;index:idx_health_company_day" json:"company_id"`
	OverallScore      int         `gorm:"not null" json:"overall_score"`
	EngagementScore   int         `gorm:"not null" json:"engagement_score"`
	ProductUsageScore int         `gorm:"not null" json:"product_usage_score"`
	SupportScore      int         `gorm:"not null" json:"support_score"`
	PaymentScore      int         `gorm:"not null" json:"payment_score"`
	HealthStatus      string      `gorm:"type:varchar(20);not null;index" json:"health_status"`
	RiskFactors       StringArray `json:"risk_factors"`
	Recommendations   StringArray `json:"recommendations"`
	CalculatedAt      time.Time   `gorm:"not null;index:idx_health_company_day" json:"calculated_at"`
}

func (HealthScore) TableName() string { return "customer_health_scores" }

func (h *HealthScore) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CalculatedAt.IsZero() {
		h.CalculatedAt = utils.UTCNow()
	}
	return nil
}

// HealthScoreFilter represents filter criteria for health score queries
type HealthScoreFilter struct {
	CompanyID        *uuid.UUID `json:"company_id,omitempty"`
	CalculatedAfter  *time.Time `json:"calculated_after,omitempty"`  // inclusive
	CalculatedBefore *time.Time `json:"calculated_before,omitempty"` // exclusive
}
