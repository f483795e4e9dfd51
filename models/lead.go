package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// Lead is a captured prospect
// Table: leads
// PhoneHash is utils.HashPhone(Phone) and is the dedup key for spreadsheet imports.
type Lead struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_leads_company_phone_hash" json:"company_id"`
	LandingPageID *uuid.UUID     `gorm:"type:uuid;index" json:"landing_page_id,omitempty"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone         string         `gorm:"type:varchar(50);not null" json:"phone"`
	PhoneHash     string         `gorm:"type:varchar(64);not null;index:idx_leads_company_phone_hash" json:"phone_hash"`
	Email         *string        `gorm:"type:varchar(255)" json:"email,omitempty"`
	Source        string         `gorm:"type:varchar(50);not null;index" json:"source"`
	Status        string         `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	CustomFields  datatypes.JSON `json:"custom_fields,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.PhoneHash == "" {
		l.PhoneHash = utils.HashPhone(l.Phone)
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// LeadFilter represents filter criteria for lead queries
type LeadFilter struct {
	CompanyID     *uuid.UUID `json:"company_id,omitempty"`
	LandingPageID *uuid.UUID `json:"landing_page_id,omitempty"`
	PhoneHashes   []string   `json:"phone_hashes,omitempty"`
	Source        *string    `json:"source,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`  // inclusive
	CreatedBefore *time.Time `json:"created_before,omitempty"` // exclusive
}
