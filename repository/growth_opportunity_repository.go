package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// GrowthOpportunityRepositoryImpl implements GrowthOpportunityRepository
type GrowthOpportunityRepositoryImpl struct {
	*BaseRepository[models.GrowthOpportunity, models.GrowthOpportunityFilter]
}

func NewGrowthOpportunityRepository(db *gorm.DB) GrowthOpportunityRepository {
	return &GrowthOpportunityRepositoryImpl{BaseRepository: NewBaseRepository[models.GrowthOpportunity](db, func(db *gorm.DB, f models.GrowthOpportunityFilter) *gorm.DB {
		if f.CompanyID != nil {
			db = db.Where("company_id = ?", *f.CompanyID)
		}
		if f.OpportunityType != nil {
			db = db.Where("opportunity_type = ?", *f.OpportunityType)
		}
		if f.Status != nil {
			db = db.Where("status = ?", *f.Status)
		}
		return db
	})}
}

// HasOpen reports whether the company already has an open opportunity of the given type
func (r *GrowthOpportunityRepositoryImpl) HasOpen(ctx context.Context, companyID uuid.UUID, opportunityType string) (bool, error) {
	status := models.OpportunityStatusOpen
	return r.Exists(ctx, models.GrowthOpportunityFilter{
		CompanyID:       &companyID,
		OpportunityType: &opportunityType,
		Status:          &status,
	})
}
