package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SheetSyncConfig is one spreadsheet integration of a company
// Table: sheet_sync_configs
// ColumnMapping holds a ColumnMapping document; LastSyncedAt only advances on executed runs.
type SheetSyncConfig struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	LandingPageID       *uuid.UUID     `gorm:"type:uuid;index" json:"landing_page_id,omitempty"`
	SpreadsheetID       string         `gorm:"type:varchar(255);not null" json:"spreadsheet_id"`
	SheetName           string         `gorm:"type:varchar(255);not null" json:"sheet_name"`
	ColumnMapping       datatypes.JSON `gorm:"not null" json:"column_mapping"`
	SyncIntervalMinutes int            `gorm:"not null;default:60" json:"sync_interval_minutes"`
	LastSyncedAt        *time.Time     `json:"last_synced_at,omitempty"`
	IsActive            bool           `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SheetSyncConfig) TableName() string { return "sheet_sync_configs" }

func (c *SheetSyncConfig) BeforeCreate(tx *gorm.DB) error {
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

// DueAt reports whether the sync interval has elapsed at now
func (c *SheetSyncConfig) DueAt(now time.Time) bool {
	if c.LastSyncedAt == nil {
		return true
	}
	interval := time.Duration(c.SyncIntervalMinutes) * time.Minute
	return now.Sub(*c.LastSyncedAt) >= interval
}

// SheetSyncConfigFilter represents filter criteria for sync config queries
type SheetSyncConfigFilter struct {
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

// SheetSyncLog is the audit row of one executed sync attempt
// Table: sheet_sync_logs
type SheetSyncLog struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigID          uuid.UUID `gorm:"type:uuid;not null;index" json:"config_id"`
	CompanyID         uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	ImportedCount     int       `gorm:"not null;default:0" json:"imported_count"`
	TotalRows         int       `gorm:"not null;default:0" json:"total_rows"`
	DuplicatesSkipped int       `gorm:"not null;default:0" json:"duplicates_skipped"`
	ErrorMessage      *string   `gorm:"type:text" json:"error_message,omitempty"`
	SyncedAt          time.Time `gorm:"not null;index" json:"synced_at"`
}

func (SheetSyncLog) TableName() string { return "sheet_sync_logs" }

func (l *SheetSyncLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.SyncedAt.IsZero() {
		l.SyncedAt = utils.UTCNow()
	}
	return nil
}

// SheetSyncLogFilter represents filter criteria for sync log queries
type SheetSyncLogFilter struct {
	ConfigID  *uuid.UUID `json:"config_id,omitempty"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
}
