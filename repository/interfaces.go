// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uuid.UUID) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AuditLogRepository defines operations for operational audit events
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}

// CompanyRepository defines operations for companies
type CompanyRepository interface {
	Repository[models.Company, models.CompanyFilter]
	ListActive(ctx context.Context) ([]*models.Company, error)
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// SubscriptionPlanRepository defines operations for subscription plans
type SubscriptionPlanRepository interface {
	Repository[models.SubscriptionPlan, models.SubscriptionPlanFilter]
}

// SubscriptionRepository defines operations for company subscriptions
type SubscriptionRepository interface {
	Repository[models.Subscription, models.SubscriptionFilter]
	ListActiveWithPlan(ctx context.Context) ([]*models.Subscription, error)
	LatestByCompany(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
}

// NotificationRepository defines operations for dashboard notifications
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
}

// NotificationSentLogRepository defines operations for the expiry notice dedup ledger
type NotificationSentLogRepository interface {
	Repository[models.NotificationSentLog, models.NotificationSentLogFilter]
	WasSent(ctx context.Context, subscriptionID uuid.UUID, notificationType string, periodEnd time.Time) (bool, error)
}

// RevenueMetricRepository defines operations for revenue snapshots
type RevenueMetricRepository interface {
	Repository[models.RevenueMetric, models.RevenueMetricFilter]
	LatestByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.RevenueMetric, error)
}

// HealthScoreRepository defines operations for customer health scores
type HealthScoreRepository interface {
	Repository[models.HealthScore, models.HealthScoreFilter]
	ByCompanyAndDay(ctx context.Context, companyID uuid.UUID, day time.Time) (*models.HealthScore, error)
	LatestByCompany(ctx context.Context, companyID uuid.UUID) (*models.HealthScore, error)
	UpsertForDay(ctx context.Context, score *models.HealthScore) (bool, error)
}

// SheetSyncConfigRepository defines operations for spreadsheet integrations
type SheetSyncConfigRepository interface {
	Repository[models.SheetSyncConfig, models.SheetSyncConfigFilter]
	ListActive(ctx context.Context) ([]*models.SheetSyncConfig, error)
	UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SheetSyncLogRepository defines operations for spreadsheet sync audit rows
type SheetSyncLogRepository interface {
	Repository[models.SheetSyncLog, models.SheetSyncLogFilter]
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	ExistingPhoneHashes(ctx context.Context, companyID uuid.UUID, hashes []string) (map[string]struct{}, error)
	CountCreatedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int64, error)
}

// LeadNotificationQueueRepository defines operations for queued lead notifications
type LeadNotificationQueueRepository interface {
	Repository[models.LeadNotificationQueue, models.LeadNotificationQueueFilter]
	ListPending(ctx context.Context, maxRetries int) ([]*models.LeadNotificationQueue, error)
	CountExhausted(ctx context.Context, maxRetries int) (int64, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
}

// LeadNotificationLogRepository defines operations for lead notification delivery logs
type LeadNotificationLogRepository interface {
	Repository[models.LeadNotificationLog, models.LeadNotificationLogFilter]
}

// LandingPageRepository defines operations for landing pages
type LandingPageRepository interface {
	Repository[models.LandingPage, models.LandingPageFilter]
	ExpiredTimerPageIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	Deactivate(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
}

// SupportTicketRepository defines operations for support tickets
type SupportTicketRepository interface {
	Repository[models.SupportTicket, models.SupportTicketFilter]
}

// GrowthOpportunityRepository defines operations for growth opportunities
type GrowthOpportunityRepository interface {
	Repository[models.GrowthOpportunity, models.GrowthOpportunityFilter]
	HasOpen(ctx context.Context, companyID uuid.UUID, opportunityType string) (bool, error)
}
