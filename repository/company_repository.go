package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// CompanyRepositoryImpl implements CompanyRepository
type CompanyRepositoryImpl struct {
	*BaseRepository[models.Company, models.CompanyFilter]
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &CompanyRepositoryImpl{BaseRepository: NewBaseRepository[models.Company](db, applyCompanyFilter)}
}

func applyCompanyFilter(db *gorm.DB, f models.CompanyFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if len(f.IDs) > 0 {
		db = db.Where("id IN ?", f.IDs)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	return db
}

// ListActive returns every company with status active, oldest first
func (r *CompanyRepositoryImpl) ListActive(ctx context.Context) ([]*models.Company, error) {
	status := models.CompanyStatusActive
	return r.ByFilter(ctx, models.CompanyFilter{Status: &status}, "created_at ASC", 0, 0)
}

// NamesByIDs resolves display names; unknown ids are absent from the result
func (r *CompanyRepositoryImpl) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uuid.UUID
		Name string
	}
	err := r.getDB(ctx).Model(&models.Company{}).Select("id, name").Where("id IN ?", ids).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load company names: %w", err)
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
