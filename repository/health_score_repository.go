package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

// HealthScoreRepositoryImpl implements HealthScoreRepository
type HealthScoreRepositoryImpl struct {
	*BaseRepository[models.HealthScore, models.HealthScoreFilter]
}

func NewHealthScoreRepository(db *gorm.DB) HealthScoreRepository {
	return &HealthScoreRepositoryImpl{BaseRepository: NewBaseRepository[models.HealthScore](db, applyHealthScoreFilter)}
}

func applyHealthScoreFilter(db *gorm.DB, f models.HealthScoreFilter) *gorm.DB {
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
}

// ByCompanyAndDay returns the score of a company calculated on the UTC calendar day of day
func (r *HealthScoreRepositoryImpl) ByCompanyAndDay(ctx context.Context, companyID uuid.UUID, day time.Time) (*models.HealthScore, error) {
	start, end := utils.UTCDayRange(day)
	rows, err := r.ByFilter(ctx, models.HealthScoreFilter{
		CompanyID:        &companyID,
		CalculatedAfter:  &start,
		CalculatedBefore: &end,
	}, "calculated_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// LatestByCompany returns the most recent score of a company
func (r *HealthScoreRepositoryImpl) LatestByCompany(ctx context.Context, companyID uuid.UUID) (*models.HealthScore, error) {
	rows, err := r.ByFilter(ctx, models.HealthScoreFilter{CompanyID: &companyID}, "calculated_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// UpsertForDay updates the company's row for the UTC day of score.CalculatedAt, or inserts one.
// It reports whether a new row was created.
func (r *HealthScoreRepositoryImpl) UpsertForDay(ctx context.Context, score *models.HealthScore) (bool, error) {
	created := false
	err := WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		existing, err := r.ByCompanyAndDay(txCtx, score.CompanyID, score.CalculatedAt)
		if err != nil {
			return err
		}
		if existing == nil {
			created = true
			return r.Save(txCtx, score)
		}

		score.ID = existing.ID
		return r.Update(txCtx, score)
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert health score: %w", err)
	}
	return created, nil
}
