package repository

import (
	"context"

	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// AuditLogRepositoryImpl implements AuditLogRepository interface
type AuditLogRepositoryImpl struct {
	*BaseRepository[models.AuditLog, models.AuditLogFilter]
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &AuditLogRepositoryImpl{BaseRepository: NewBaseRepository[models.AuditLog](db, func(db *gorm.DB, f models.AuditLogFilter) *gorm.DB {
		if f.Action != nil {
			db = db.Where("action = ?", *f.Action)
		}
		if f.Success != nil {
			db = db.Where("success = ?", *f.Success)
		}
		if f.RequestID != nil {
			db = db.Where("request_id = ?", *f.RequestID)
		}
		if f.CreatedAfter != nil {
			db = db.Where("created_at >= ?", *f.CreatedAfter)
		}
		if f.CreatedBefore != nil {
			db = db.Where("created_at < ?", *f.CreatedBefore)
		}
		return db
	})}
}

// ListByAction retrieves audit logs for a specific action, newest first
func (r *AuditLogRepositoryImpl) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	return r.ByFilter(ctx, models.AuditLogFilter{Action: &action}, "created_at DESC", limit, offset)
}
