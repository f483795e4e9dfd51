package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// SubscriptionPlanRepositoryImpl implements SubscriptionPlanRepository
type SubscriptionPlanRepositoryImpl struct {
	*BaseRepository[models.SubscriptionPlan, models.SubscriptionPlanFilter]
}

func NewSubscriptionPlanRepository(db *gorm.DB) SubscriptionPlanRepository {
	return &SubscriptionPlanRepositoryImpl{BaseRepository: NewBaseRepository[models.SubscriptionPlan](db, func(db *gorm.DB, f models.SubscriptionPlanFilter) *gorm.DB {
		if f.Name != nil {
			db = db.Where("name = ?", *f.Name)
		}
		return db
	})}
}

// SubscriptionRepositoryImpl implements SubscriptionRepository
type SubscriptionRepositoryImpl struct {
	*BaseRepository[models.Subscription, models.SubscriptionFilter]
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{BaseRepository: NewBaseRepository[models.Subscription](db, applySubscriptionFilter)}
}

func applySubscriptionFilter(db *gorm.DB, f models.SubscriptionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CompanyID != nil {
		db = db.Where("company_id = ?", *f.CompanyID)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("status IN ?", f.Statuses)
	}
	if f.PeriodEndAfter != nil {
		db = db.Where("current_period_end > ?", *f.PeriodEndAfter)
	}
	if f.PeriodEndNotAfter != nil {
		db = db.Where("current_period_end <= ?", *f.PeriodEndNotAfter)
	}
	if f.PeriodEndBefore != nil {
		db = db.Where("current_period_end < ?", *f.PeriodEndBefore)
	}
	if f.PreloadPlan {
		db = db.Preload("Plan")
	}
	return db
}

// ListActiveWithPlan returns active subscriptions with their plan, grouped by company in creation order
func (r *SubscriptionRepositoryImpl) ListActiveWithPlan(ctx context.Context) ([]*models.Subscription, error) {
	return r.ByFilter(ctx, models.SubscriptionFilter{
		Statuses:    []string{models.SubscriptionStatusActive},
		PreloadPlan: true,
	}, "company_id ASC, created_at ASC", 0, 0)
}

// LatestByCompany returns the most recently created subscription of a company, any status
func (r *SubscriptionRepositoryImpl) LatestByCompany(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.getDB(ctx).Where("company_id = ?", companyID).Order("created_at DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest subscription: %w", err)
	}
	return &sub, nil
}

// UpdateStatus moves a subscription to status
func (r *SubscriptionRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	_, err := r.updateColumnsByIDs(ctx, []uuid.UUID{id}, map[string]any{
		"status":     status,
		"updated_at": at,
	})
	return err
}
