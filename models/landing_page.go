package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

// LandingPage is a company's lead capture page. Only the fields the daily sweep and
// health scoring read are mapped here.
// Table: landing_pages
// A page with TimerAutoUpdate manages its own deadline and is never deactivated by the sweep.
type LandingPage struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	Slug            string     `gorm:"type:varchar(255);not null;index" json:"slug"`
	IsActive        bool       `gorm:"not null;default:true;index" json:"is_active"`
	TimerEnabled    bool       `gorm:"not null;default:false" json:"timer_enabled"`
	TimerAutoUpdate bool       `gorm:"not null;default:false" json:"timer_auto_update"`
	TimerDeadline   *time.Time `gorm:"index" json:"timer_deadline,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LandingPage) TableName() string { return "landing_pages" }

func (p *LandingPage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return nil
}

// LandingPageFilter represents filter criteria for landing page queries
type LandingPageFilter struct {
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
	TimerEnabled    *bool      `json:"timer_enabled,omitempty"`
	TimerAutoUpdate *bool      `json:"timer_auto_update,omitempty"`
	DeadlineBefore  *time.Time `json:"deadline_before,omitempty"`
}
