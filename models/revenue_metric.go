package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueMetric is a point-in-time MRR/ARR snapshot of one company.
// Table: revenue_metrics
// Append-only; growth rates are filled by reporting, not by the daily rollup.
type RevenueMetric struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"company_id"`
	MRR           decimal.Decimal  `gorm:"column:mrr;type:numeric(14,2);not null" json:"mrr"`
	ARR           decimal.Decimal  `gorm:"column:arr;type:numeric(14,2);not null" json:"arr"`
	MRRGrowthRate *decimal.Decimal `gorm:"column:mrr_growth_rate;type:numeric(8,4)" json:"mrr_growth_rate"`
	ARRGrowthRate *decimal.Decimal `gorm:"column:arr_growth_rate;type:numeric(8,4)" json:"arr_growth_rate"`
	PlanType      string           `gorm:"type:varchar(100)" json:"plan_type"`
	BillingCycle  string           `gorm:"type:varchar(10)" json:"billing_cycle"`
	CalculatedAt  time.Time        `gorm:"not null;index" json:"calculated_at"`
}

func (RevenueMetric) TableName() string { return "revenue_metrics" }

func (m *RevenueMetric) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CalculatedAt.IsZero() {
		m.CalculatedAt = utils.UTCNow()
	}
	return nil
}

// RevenueMetricFilter represents filter criteria for revenue metric queries
type RevenueMetricFilter struct {
	CompanyID        *uuid.UUID `json:"company_id,omitempty"`
	CalculatedAfter  *time.Time `json:"calculated_after,omitempty"`
	CalculatedBefore *time.Time `json:"calculated_before,omitempty"`
}
