package repository

import (
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/gorm"
)

// SupportTicketRepositoryImpl implements SupportTicketRepository
type SupportTicketRepositoryImpl struct {
	*BaseRepository[models.SupportTicket, models.SupportTicketFilter]
}

func NewSupportTicketRepository(db *gorm.DB) SupportTicketRepository {
	return &SupportTicketRepositoryImpl{BaseRepository: NewBaseRepository[models.SupportTicket](db, func(db *gorm.DB, f models.SupportTicketFilter) *gorm.DB {
		if f.CompanyID != nil {
			db = db.Where("company_id = ?", *f.CompanyID)
		}
		if len(f.Statuses) > 0 {
			db = db.Where("status IN ?", f.Statuses)
		}
		if f.Priority != nil {
			db = db.Where("priority = ?", *f.Priority)
		}
		return db
	})}
}
