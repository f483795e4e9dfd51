package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/repository"
	"gorm.io/gorm"
)

// TimerSweepFlow deactivates landing pages whose fixed countdown deadline has passed
type TimerSweepFlow interface {
	Run(ctx context.Context, now time.Time) (*dto.TimerSweepResult, error)
}

type TimerSweepFlowImpl struct {
	landingPageRepo repository.LandingPageRepository
	db              *gorm.DB
	logger          *log.Logger
}

func NewTimerSweepFlow(landingPageRepo repository.LandingPageRepository, db *gorm.DB, logger *log.Logger) TimerSweepFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &TimerSweepFlowImpl{
		landingPageRepo: landingPageRepo,
		db:              db,
		logger:          logger,
	}
}

func (f *TimerSweepFlowImpl) Run(ctx context.Context, now time.Time) (*dto.TimerSweepResult, error) {
	now = now.UTC()
	var disabled int64
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		ids, err := f.landingPageRepo.ExpiredTimerPageIDs(txCtx, now)
		if err != nil {
			return err
		}
		disabled, err = f.landingPageRepo.Deactivate(txCtx, ids, now)
		return err
	})
	if err != nil {
		return nil, NewBusinessError("TIMER_SWEEP_FAILED", "Failed to deactivate expired timer pages", err)
	}

	if disabled > 0 {
		f.logger.Printf("timer sweep: deactivated %d landing pages", disabled)
	}
	return &dto.TimerSweepResult{Disabled: disabled}, nil
}
