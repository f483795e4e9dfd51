package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

// Notification types written by the daily expiry check
const (
	NotificationTypeSubscriptionExpiring = "subscription_expiring"
	NotificationTypeSubscriptionExpired  = "subscription_expired"
)

// Notification is a dashboard message shown to a company
// Table: notifications
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Link      string    `gorm:"type:varchar(255)" json:"link"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = utils.UTCNow()
	}
	return nil
}

// NotificationFilter represents filter criteria for notification queries
type NotificationFilter struct {
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Type      *string    `json:"type,omitempty"`
}

// NotificationSentLog is the dedup ledger for expiry notices.
// Table: notification_sent_logs
// One row per (subscription_id, notification_type, period_end); never updated.
type NotificationSentLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriptionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_notification_sent" json:"subscription_id"`
	NotificationType string    `gorm:"type:varchar(50);not null;uniqueIndex:uniq_notification_sent" json:"notification_type"`
	PeriodEnd        time.Time `gorm:"not null;uniqueIndex:uniq_notification_sent" json:"period_end"`
	SentAt           time.Time `gorm:"not null" json:"sent_at"`
}

func (NotificationSentLog) TableName() string { return "notification_sent_logs" }

func (l *NotificationSentLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.SentAt.IsZero() {
		l.SentAt = utils.UTCNow()
	}
	return nil
}

// NotificationSentLogFilter represents filter criteria for sent-log queries
type NotificationSentLogFilter struct {
	SubscriptionID   *uuid.UUID `json:"subscription_id,omitempty"`
	NotificationType *string    `json:"notification_type,omitempty"`
	PeriodEnd        *time.Time `json:"period_end,omitempty"`
}
