package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"

	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// SupportTicket is a customer support request
// Table: support_tickets
type SupportTicket struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Title      string     `gorm:"type:varchar(255);not null" json:"title"`
	Status     string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Priority   string     `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SupportTicket) TableName() string { return "support_tickets" }

func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	return nil
}

// SupportTicketFilter represents filter criteria for support ticket queries
type SupportTicketFilter struct {
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Statuses  []string   `json:"statuses,omitempty"`
	Priority  *string    `json:"priority,omitempty"`
}
