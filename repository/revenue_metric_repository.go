package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// RevenueMetricRepositoryImpl implements RevenueMetricRepository
type RevenueMetricRepositoryImpl struct {
	*BaseRepository[models.RevenueMetric, models.RevenueMetricFilter]
}

func NewRevenueMetricRepository(db *gorm.DB) RevenueMetricRepository {
	return &RevenueMetricRepositoryImpl{BaseRepository: NewBaseRepository[models.RevenueMetric](db, func(db *gorm.DB, f models.RevenueMetricFilter) *gorm.DB {
		if f.CompanyID != nil {
			db = db.Where("company_id = ?", *f.CompanyID)
		}
		if f.CalculatedAfter != nil {
			db = db.Where("calculated_at >= ?", *f.CalculatedAfter)
		}
		if f.CalculatedBefore != nil {
			db = db.Where("calculated_at < ?", *f.CalculatedBefore)
		}
		return db
	})}
}

// LatestByCompany returns up to limit snapshots of a company, newest first
func (r *RevenueMetricRepositoryImpl) LatestByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.RevenueMetric, error) {
	return r.ByFilter(ctx, models.RevenueMetricFilter{CompanyID: &companyID}, "calculated_at DESC", limit, 0)
}
