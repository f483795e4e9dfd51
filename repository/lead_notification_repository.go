package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// LeadNotificationQueueRepositoryImpl implements LeadNotificationQueueRepository
type LeadNotificationQueueRepositoryImpl struct {
	*BaseRepository[models.LeadNotificationQueue, models.LeadNotificationQueueFilter]
}

func NewLeadNotificationQueueRepository(db *gorm.DB) LeadNotificationQueueRepository {
	return &LeadNotificationQueueRepositoryImpl{BaseRepository: NewBaseRepository[models.LeadNotificationQueue](db, applyLeadNotificationQueueFilter)}
}

func applyLeadNotificationQueueFilter(db *gorm.DB, f models.LeadNotificationQueueFilter) *gorm.DB {
	if f.CompanyID != nil {
		db = db.Where("company_id = ?", *f.CompanyID)
	}
	if f.Sent != nil {
		db = db.Where("sent = ?", *f.Sent)
	}
	if f.RetryCountLT != nil {
		db = db.Where("retry_count < ?", *f.RetryCountLT)
	}
	if f.RetryCountGTE != nil {
		db = db.Where("retry_count >= ?", *f.RetryCountGTE)
	}
	return db
}

// ListPending returns unsent notices with retry_count below maxRetries, oldest first
func (r *LeadNotificationQueueRepositoryImpl) ListPending(ctx context.Context, maxRetries int) ([]*models.LeadNotificationQueue, error) {
	sent := false
	return r.ByFilter(ctx, models.LeadNotificationQueueFilter{
		Sent:         &sent,
		RetryCountLT: &maxRetries,
	}, "created_at ASC", 0, 0)
}

// CountExhausted counts unsent notices that reached maxRetries and will never be picked up again
func (r *LeadNotificationQueueRepositoryImpl) CountExhausted(ctx context.Context, maxRetries int) (int64, error) {
	sent := false
	return r.Count(ctx, models.LeadNotificationQueueFilter{
		Sent:          &sent,
		RetryCountGTE: &maxRetries,
	})
}

// MarkSent flags the given notices as sent at the given instant
func (r *LeadNotificationQueueRepositoryImpl) MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	return r.updateColumnsByIDs(ctx, ids, map[string]any{
		"sent":    true,
		"sent_at": at,
	})
}

// LeadNotificationLogRepositoryImpl implements LeadNotificationLogRepository
type LeadNotificationLogRepositoryImpl struct {
	*BaseRepository[models.LeadNotificationLog, models.LeadNotificationLogFilter]
}

func NewLeadNotificationLogRepository(db *gorm.DB) LeadNotificationLogRepository {
	return &LeadNotificationLogRepositoryImpl{BaseRepository: NewBaseRepository[models.LeadNotificationLog](db, func(db *gorm.DB, f models.LeadNotificationLogFilter) *gorm.DB {
		if f.NotificationID != nil {
			db = db.Where("notification_id = ?", *f.NotificationID)
		}
		if f.CompanyID != nil {
			db = db.Where("company_id = ?", *f.CompanyID)
		}
		if f.Success != nil {
			db = db.Where("success = ?", *f.Success)
		}
		return db
	})}
}
