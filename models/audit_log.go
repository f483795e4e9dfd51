package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records one operational event of the daily task service
// Table: audit_log
type AuditLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Action       string         `gorm:"type:varchar(50);not null;index:idx_audit_action" json:"action"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	RequestID    *string        `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	Success      *bool          `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// Audit action constants
const (
	AuditActionDailyTasksCompleted = "daily_tasks_completed"
	AuditActionDailyTasksSkipped   = "daily_tasks_skipped"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	Action        *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
