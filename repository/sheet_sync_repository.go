package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// SheetSyncConfigRepositoryImpl implements SheetSyncConfigRepository
type SheetSyncConfigRepositoryImpl struct {
	*BaseRepository[models.SheetSyncConfig, models.SheetSyncConfigFilter]
}

func NewSheetSyncConfigRepository(db *gorm.DB) SheetSyncConfigRepository {
	return &SheetSyncConfigRepositoryImpl{BaseRepository: NewBaseRepository[models.SheetSyncConfig](db, func(db *gorm.DB, f models.SheetSyncConfigFilter) *gorm.DB {
		if f.CompanyID != nil {
			db = db.Where("company_id = ?", *f.CompanyID)
		}
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		return db
	})}
}

// ListActive returns the active sync configs, oldest first
func (r *SheetSyncConfigRepositoryImpl) ListActive(ctx context.Context) ([]*models.SheetSyncConfig, error) {
	active := true
	return r.ByFilter(ctx, models.SheetSyncConfigFilter{IsActive: &active}, "created_at ASC", 0, 0)
}

// UpdateLastSyncedAt records an executed sync run
func (r *SheetSyncConfigRepositoryImpl) UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.updateColumnsByIDs(ctx, []uuid.UUID{id}, map[string]any{
		"last_synced_at": at,
		"updated_at":     at,
	})
	return err
}

// SheetSyncLogRepositoryImpl implements SheetSyncLogRepository
type SheetSyncLogRepositoryImpl struct {
	*BaseRepository[models.SheetSyncLog, models.SheetSyncLogFilter]
}

func NewSheetSyncLogRepository(db *gorm.DB) SheetSyncLogRepository {
	return &SheetSyncLogRepositoryImpl{BaseRepository: NewBaseRepository[models.SheetSyncLog](db, func(db *gorm.DB, f models.SheetSyncLogFilter) *gorm.DB {
		if f.ConfigID != nil {
			db = db.Where("config_id = ?", *f.ConfigID)
		}
		if f.CompanyID != nil {
			db = db.Where("company_id = ?", *f.CompanyID)
		}
		return db
	})}
}
