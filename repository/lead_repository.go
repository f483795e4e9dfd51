package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// phoneHashChunk keeps IN lists well below driver parameter limits
const phoneHashChunk = 500

// LeadRepositoryImpl implements LeadRepository
type LeadRepositoryImpl struct {
	*BaseRepository[models.Lead, models.LeadFilter]
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{BaseRepository: NewBaseRepository[models.Lead](db, applyLeadFilter)}
}

func applyLeadFilter(db *gorm.DB, f models.LeadFilter) *gorm.DB {
	if f.CompanyID != nil {
		db = db.Where("company_id = ?", *f.CompanyID)
	}
	if f.LandingPageID != nil {
		db = db.Where("landing_page_id = ?", *f.LandingPageID)
	}
	if len(f.PhoneHashes) > 0 {
		db = db.Where("phone_hash IN ?", f.PhoneHashes)
	}
	if f.Source != nil {
		db = db.Where("source = ?", *f.Source)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ExistingPhoneHashes returns the subset of hashes already present on the company's leads
func (r *LeadRepositoryImpl) ExistingPhoneHashes(ctx context.Context, companyID uuid.UUID, hashes []string) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	for start := 0; start < len(hashes); start += phoneHashChunk {
		end := min(start+phoneHashChunk, len(hashes))

		var chunk []string
		err := r.getDB(ctx).Model(&models.Lead{}).
			Where("company_id = ? AND phone_hash IN ?", companyID, hashes[start:end]).
			Distinct().
			Pluck("phone_hash", &chunk).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load existing phone hashes: %w", err)
		}
		for _, h := range chunk {
			found[h] = struct{}{}
		}
	}
	return found, nil
}

// CountCreatedBetween counts the company's leads created in [from, to)
func (r *LeadRepositoryImpl) CountCreatedBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (int64, error) {
	return r.Count(ctx, models.LeadFilter{
		CompanyID:     &companyID,
		CreatedAfter:  &from,
		CreatedBefore: &to,
	})
}
