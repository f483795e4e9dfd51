package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	"github.com/shopspring/decimal"
)

// RevenueFlow appends one revenue snapshot per company with active subscriptions
type RevenueFlow interface {
	Run(ctx context.Context, now time.Time) (*dto.RevenueCalculationResult, error)
}

type RevenueFlowImpl struct {
	subscriptionRepo  repository.SubscriptionRepository
	revenueMetricRepo repository.RevenueMetricRepository
	logger            *log.Logger
}

func NewRevenueFlow(
	subscriptionRepo repository.SubscriptionRepository,
	revenueMetricRepo repository.RevenueMetricRepository,
	logger *log.Logger,
) RevenueFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &RevenueFlowImpl{
		subscriptionRepo:  subscriptionRepo,
		revenueMetricRepo: revenueMetricRepo,
		logger:            logger,
	}
}

func (f *RevenueFlowImpl) Run(ctx context.Context, now time.Time) (*dto.RevenueCalculationResult, error) {
	subs, err := f.subscriptionRepo.ListActiveWithPlan(ctx)
	if err != nil {
		return nil, NewBusinessError("ACTIVE_SUBSCRIPTIONS_QUERY_FAILED", "Failed to list active subscriptions", err)
	}

	revenues := CalculateCompanyRevenue(subs)
	totalMRR, totalARR := decimal.Zero, decimal.Zero
	metrics := make([]*models.RevenueMetric, 0, len(revenues))
	for _, rev := range revenues {
		totalMRR = totalMRR.Add(rev.MRR)
		totalARR = totalARR.Add(rev.ARR)
		metrics = append(metrics, &models.RevenueMetric{
			CompanyID:    rev.CompanyID,
			MRR:          rev.MRR,
			ARR:          rev.ARR,
			PlanType:     rev.PlanType,
			BillingCycle: rev.BillingCycle,
			CalculatedAt: now.UTC(),
		})
	}

	if err := f.revenueMetricRepo.SaveBatch(ctx, metrics); err != nil {
		return nil, NewBusinessError("REVENUE_METRICS_SAVE_FAILED", "Failed to save revenue metrics", err)
	}

	f.logger.Printf("revenue: %d companies, MRR %s, ARR %s", len(metrics), totalMRR.StringFixed(2), totalARR.StringFixed(2))
	return &dto.RevenueCalculationResult{
		CompaniesProcessed: len(metrics),
		TotalMRR:           totalMRR.StringFixed(2),
		TotalARR:           totalARR.StringFixed(2),
	}, nil
}
