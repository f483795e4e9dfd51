// Package models contains the gorm entities persisted by the daily task service
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

const (
	CompanyStatusActive    = "active"
	CompanyStatusInactive  = "inactive"
	CompanyStatusSuspended = "suspended"
)

// Company is a tenant of the platform
// Table: companies
type Company struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	LastActiveAt *time.Time `gorm:"index" json:"last_active_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return nil
}

// CompanyFilter represents filter criteria for company queries
type CompanyFilter struct {
	ID     *uuid.UUID  `json:"id,omitempty"`
	IDs    []uuid.UUID `json:"ids,omitempty"`
	Status *string     `json:"status,omitempty"`
}
