package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	"github.com/shopspring/decimal"
)

const (
	leadSurgeMinLeads        = 20
	annualConversionMinScore = 80
)

var leadSurgeUpliftRate = decimal.NewFromFloat(0.25)

// GrowthOpportunityFlow flags upsell and expansion signals per active company
type GrowthOpportunityFlow interface {
	Detect(ctx context.Context, now time.Time) (*dto.GrowthDetectionResult, error)
}

type GrowthOpportunityFlowImpl struct {
	companyRepo       repository.CompanyRepository
	subscriptionRepo  repository.SubscriptionRepository
	leadRepo          repository.LeadRepository
	healthScoreRepo   repository.HealthScoreRepository
	revenueMetricRepo repository.RevenueMetricRepository
	opportunityRepo   repository.GrowthOpportunityRepository
	logger            *log.Logger
}

func NewGrowthOpportunityFlow(
	companyRepo repository.CompanyRepository,
	subscriptionRepo repository.SubscriptionRepository,
	leadRepo repository.LeadRepository,
	healthScoreRepo repository.HealthScoreRepository,
	revenueMetricRepo repository.RevenueMetricRepository,
	opportunityRepo repository.GrowthOpportunityRepository,
	logger *log.Logger,
) GrowthOpportunityFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &GrowthOpportunityFlowImpl{
		companyRepo:       companyRepo,
		subscriptionRepo:  subscriptionRepo,
		leadRepo:          leadRepo,
		healthScoreRepo:   healthScoreRepo,
		revenueMetricRepo: revenueMetricRepo,
		opportunityRepo:   opportunityRepo,
		logger:            logger,
	}
}

// Detect never fails on a single company; Success is false when any company could not be analyzed
func (f *GrowthOpportunityFlowImpl) Detect(ctx context.Context, now time.Time) (*dto.GrowthDetectionResult, error) {
	now = now.UTC()
	companies, err := f.companyRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("ACTIVE_COMPANIES_QUERY_FAILED", "Failed to list active companies", err)
	}

	result := &dto.GrowthDetectionResult{Success: true}
	for _, company := range companies {
		candidates, err := f.analyze(ctx, company.ID, now)
		if err == nil {
			var created int
			created, err = f.record(ctx, company.ID, candidates, now)
			result.OpportunitiesCreated += created
		}
		if err != nil {
			result.Failed++
			result.Success = false
			f.logger.Printf("growth opportunities: company %s: %v", company.ID, err)
			continue
		}
		result.CompaniesAnalyzed++
	}
	return result, nil
}

func (f *GrowthOpportunityFlowImpl) analyze(ctx context.Context, companyID uuid.UUID, now time.Time) ([]models.GrowthOpportunity, error) {
	var found []models.GrowthOpportunity

	metrics, err := f.revenueMetricRepo.LatestByCompany(ctx, companyID, 2)
	if err != nil {
		return nil, err
	}
	currentMRR := decimal.Zero
	if len(metrics) > 0 {
		currentMRR = metrics[0].MRR
	}

	last, err := f.leadRepo.CountCreatedBetween(ctx, companyID, now.Add(-leadWindow), now)
	if err != nil {
		return nil, err
	}
	prior, err := f.leadRepo.CountCreatedBetween(ctx, companyID, now.Add(-2*leadWindow), now.Add(-leadWindow))
	if err != nil {
		return nil, err
	}
	if last >= leadSurgeMinLeads && 2*last >= 3*prior {
		found = append(found, models.GrowthOpportunity{
			OpportunityType:    models.OpportunityTypeLeadSurge,
			Title:              "Lead volume is surging",
			Description:        fmt.Sprintf("%d leads in the last 30 days against %d in the 30 days before. A higher plan may fit.", last, prior),
			Confidence:         70,
			EstimatedMRRUplift: currentMRR.Mul(leadSurgeUpliftRate).Round(2),
		})
	}

	sub, err := f.subscriptionRepo.LatestByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub != nil && sub.Status == models.SubscriptionStatusActive && sub.BillingCycle == models.BillingCycleMonthly {
		score, err := f.healthScoreRepo.LatestByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if score != nil && score.OverallScore >= annualConversionMinScore {
			found = append(found, models.GrowthOpportunity{
				OpportunityType:    models.OpportunityTypeAnnualConversion,
				Title:              "Healthy monthly customer",
				Description:        fmt.Sprintf("Health score %d on monthly billing. Offer annual billing.", score.OverallScore),
				Confidence:         80,
				EstimatedMRRUplift: decimal.Zero,
			})
		}
	}

	if len(metrics) == 2 && metrics[0].MRR.GreaterThan(metrics[1].MRR) {
		delta := metrics[0].MRR.Sub(metrics[1].MRR)
		found = append(found, models.GrowthOpportunity{
			OpportunityType:    models.OpportunityTypeMRRGrowth,
			Title:              "MRR is growing",
			Description:        fmt.Sprintf("MRR rose from %s to %s.", metrics[1].MRR.StringFixed(2), metrics[0].MRR.StringFixed(2)),
			Confidence:         60,
			EstimatedMRRUplift: delta,
		})
	}

	return found, nil
}

// record stores candidates unless an open opportunity of the same type already exists
func (f *GrowthOpportunityFlowImpl) record(ctx context.Context, companyID uuid.UUID, candidates []models.GrowthOpportunity, now time.Time) (int, error) {
	created := 0
	for _, c := range candidates {
		open, err := f.opportunityRepo.HasOpen(ctx, companyID, c.OpportunityType)
		if err != nil {
			return created, err
		}
		if open {
			continue
		}

		c.CompanyID = companyID
		c.Status = models.OpportunityStatusOpen
		c.DetectedAt = now
		if err := f.opportunityRepo.Save(ctx, &c); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
