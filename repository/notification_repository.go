package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// NotificationRepositoryImpl implements NotificationRepository
type NotificationRepositoryImpl struct {
	*BaseRepository[models.Notification, models.NotificationFilter]
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{BaseRepository: NewBaseRepository[models.Notification](db, func(db *gorm.DB, f models.NotificationFilter) *gorm.DB {
		if f.CompanyID != nil {
			db = db.Where("company_id = ?", *f.CompanyID)
		}
		if f.Type != nil {
			db = db.Where("type = ?", *f.Type)
		}
		return db
	})}
}

// NotificationSentLogRepositoryImpl implements NotificationSentLogRepository
type NotificationSentLogRepositoryImpl struct {
	*BaseRepository[models.NotificationSentLog, models.NotificationSentLogFilter]
}

func NewNotificationSentLogRepository(db *gorm.DB) NotificationSentLogRepository {
	return &NotificationSentLogRepositoryImpl{BaseRepository: NewBaseRepository[models.NotificationSentLog](db, func(db *gorm.DB, f models.NotificationSentLogFilter) *gorm.DB {
		if f.SubscriptionID != nil {
			db = db.Where("subscription_id = ?", *f.SubscriptionID)
		}
		if f.NotificationType != nil {
			db = db.Where("notification_type = ?", *f.NotificationType)
		}
		if f.PeriodEnd != nil {
			db = db.Where("period_end = ?", *f.PeriodEnd)
		}
		return db
	})}
}

// WasSent reports whether a notice of this type already went out for this billing period end
func (r *NotificationSentLogRepositoryImpl) WasSent(ctx context.Context, subscriptionID uuid.UUID, notificationType string, periodEnd time.Time) (bool, error) {
	periodEnd = periodEnd.UTC()
	return r.Exists(ctx, models.NotificationSentLogFilter{
		SubscriptionID:   &subscriptionID,
		NotificationType: &notificationType,
		PeriodEnd:        &periodEnd,
	})
}
