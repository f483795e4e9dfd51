package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// LandingPageRepositoryImpl implements LandingPageRepository
type LandingPageRepositoryImpl struct {
	*BaseRepository[models.LandingPage, models.LandingPageFilter]
}

func NewLandingPageRepository(db *gorm.DB) LandingPageRepository {
	return &LandingPageRepositoryImpl{BaseRepository: NewBaseRepository[models.LandingPage](db, applyLandingPageFilter)}
}

func applyLandingPageFilter(db *gorm.DB, f models.LandingPageFilter) *gorm.DB {
	if f.CompanyID != nil {
		db = db.Where("company_id = ?", *f.CompanyID)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.TimerEnabled != nil {
		db = db.Where("timer_enabled = ?", *f.TimerEnabled)
	}
	if f.TimerAutoUpdate != nil {
		db = db.Where("timer_auto_update = ?", *f.TimerAutoUpdate)
	}
	if f.DeadlineBefore != nil {
		db = db.Where("timer_deadline IS NOT NULL AND timer_deadline < ?", *f.DeadlineBefore)
	}
	return db
}

// ExpiredTimerPageIDs returns active pages whose fixed countdown deadline passed before now.
// Pages with an auto-updating timer are excluded.
func (r *LandingPageRepositoryImpl) ExpiredTimerPageIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	yes, no := true, false
	var ids []uuid.UUID
	err := r.query(ctx, models.LandingPageFilter{
		IsActive:        &yes,
		TimerEnabled:    &yes,
		TimerAutoUpdate: &no,
		DeadlineBefore:  &now,
	}).Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired timer pages: %w", err)
	}
	return ids, nil
}

// Deactivate switches the given pages off and returns the number of rows changed
func (r *LandingPageRepositoryImpl) Deactivate(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	return r.updateColumnsByIDs(ctx, ids, map[string]any{
		"is_active":  false,
		"updated_at": at,
	})
}
