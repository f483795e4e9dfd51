package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OpportunityTypeLeadSurge        = "lead_surge"
	OpportunityTypeAnnualConversion = "annual_conversion"
	OpportunityTypeMRRGrowth        = "mrr_growth"

	OpportunityStatusOpen      = "open"
	OpportunityStatusDismissed = "dismissed"
	OpportunityStatusConverted = "converted"
)

// GrowthOpportunity is an upsell or expansion signal found by the daily detector
// Table: growth_opportunities
// At most one open row per (company_id, opportunity_type).
type GrowthOpportunity struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	OpportunityType    string          `gorm:"type:varchar(50);not null;index" json:"opportunity_type"`
	Title              string          `gorm:"type:varchar(255);not null" json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	Confidence         int             `gorm:"not null;default:0" json:"confidence"`
	EstimatedMRRUplift decimal.Decimal `gorm:"column:estimated_mrr_uplift;type:numeric(14,2);not null;default:0" json:"estimated_mrr_uplift"`
	Status             string          `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	DetectedAt         time.Time       `gorm:"not null" json:"detected_at"`
}

func (GrowthOpportunity) TableName() string { return "growth_opportunities" }

func (g *GrowthOpportunity) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.DetectedAt.IsZero() {
		g.DetectedAt = utils.UTCNow()
	}
	return nil
}

// GrowthOpportunityFilter represents filter criteria for growth opportunity queries
type GrowthOpportunityFilter struct {
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	OpportunityType *string    `json:"opportunity_type,omitempty"`
	Status          *string    `json:"status,omitempty"`
}
