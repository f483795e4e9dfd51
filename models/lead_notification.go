package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LeadNotificationQueue is a pending "new lead" notice for a company.
// Table: lead_notification_queue
// Rows are produced when a lead is created and consumed by the daily digest.
// LeadData holds a LeadDigestData document.
type LeadNotificationQueue struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	LeadID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"lead_id"`
	RecipientEmails StringArray    `json:"recipient_emails"`
	LeadData        datatypes.JSON `gorm:"not null" json:"lead_data"`
	Sent            bool           `gorm:"not null;default:false;index:idx_lead_queue_pending" json:"sent"`
	SentAt          *time.Time     `json:"sent_at,omitempty"`
	RetryCount      int            `gorm:"not null;default:0;index:idx_lead_queue_pending" json:"retry_count"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (LeadNotificationQueue) TableName() string { return "lead_notification_queue" }

func (q *LeadNotificationQueue) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = utils.UTCNow()
	}
	return nil
}

// LeadNotificationQueueFilter represents filter criteria for queue queries
type LeadNotificationQueueFilter struct {
	CompanyID     *uuid.UUID `json:"company_id,omitempty"`
	Sent          *bool      `json:"sent,omitempty"`
	RetryCountLT  *int       `json:"retry_count_lt,omitempty"`
	RetryCountGTE *int       `json:"retry_count_gte,omitempty"`
}

// LeadNotificationLog records one delivery attempt of one queued notice to one recipient.
// Table: lead_notification_logs
type LeadNotificationLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NotificationID uuid.UUID `gorm:"type:uuid;not null;index" json:"notification_id"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	RecipientEmail string    `gorm:"type:varchar(255);not null" json:"recipient_email"`
	Success        bool      `gorm:"not null" json:"success"`
	EmailID        *string   `gorm:"type:varchar(255)" json:"email_id,omitempty"`
	ErrorMessage   *string   `gorm:"type:text" json:"error_message,omitempty"`
	SentAt         time.Time `gorm:"not null" json:"sent_at"`
}

func (LeadNotificationLog) TableName() string { return "lead_notification_logs" }

func (l *LeadNotificationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.SentAt.IsZero() {
		l.SentAt = utils.UTCNow()
	}
	return nil
}

// LeadNotificationLogFilter represents filter criteria for delivery log queries
type LeadNotificationLogFilter struct {
	NotificationID *uuid.UUID `json:"notification_id,omitempty"`
	CompanyID      *uuid.UUID `json:"company_id,omitempty"`
	Success        *bool      `json:"success,omitempty"`
}
