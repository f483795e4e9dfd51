package businessflow

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	"golang.org/x/sync/errgroup"
)

const leadWindow = 30 * 24 * time.Hour

// HealthScoreFlow scores every active company and keeps one score row per company per UTC day
type HealthScoreFlow interface {
	Run(ctx context.Context, now time.Time) (*dto.HealthScoreRunResult, error)
}

type HealthScoreFlowImpl struct {
	companyRepo       repository.CompanyRepository
	subscriptionRepo  repository.SubscriptionRepository
	leadRepo          repository.LeadRepository
	landingPageRepo   repository.LandingPageRepository
	supportTicketRepo repository.SupportTicketRepository
	healthScoreRepo   repository.HealthScoreRepository
	logger            *log.Logger
	concurrency       int
}

func NewHealthScoreFlow(
	companyRepo repository.CompanyRepository,
	subscriptionRepo repository.SubscriptionRepository,
	leadRepo repository.LeadRepository,
	landingPageRepo repository.LandingPageRepository,
	supportTicketRepo repository.SupportTicketRepository,
	healthScoreRepo repository.HealthScoreRepository,
	logger *log.Logger,
	concurrency int,
) HealthScoreFlow {
	if logger == nil {
		logger = log.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &HealthScoreFlowImpl{
		companyRepo:       companyRepo,
		subscriptionRepo:  subscriptionRepo,
		leadRepo:          leadRepo,
		landingPageRepo:   landingPageRepo,
		supportTicketRepo: supportTicketRepo,
		healthScoreRepo:   healthScoreRepo,
		logger:            logger,
		concurrency:       concurrency,
	}
}

func (f *HealthScoreFlowImpl) Run(ctx context.Context, now time.Time) (*dto.HealthScoreRunResult, error) {
	now = now.UTC()
	companies, err := f.companyRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("ACTIVE_COMPANIES_QUERY_FAILED", "Failed to list active companies", err)
	}

	result := &dto.HealthScoreRunResult{Errors: []string{}}
	var mu sync.Mutex

	// workers never return an error so one company cannot cancel the others
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for _, company := range companies {
		g.Go(func() error {
			created, err := f.scoreCompany(gctx, company, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", company.ID, err))
				f.logger.Printf("health scores: company %s: %v", company.ID, err)
				return nil
			}
			result.Scored++
			if created {
				result.Created++
			} else {
				result.Updated++
			}
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

func (f *HealthScoreFlowImpl) scoreCompany(ctx context.Context, company *models.Company, now time.Time) (bool, error) {
	activity, err := f.gatherActivity(ctx, company, now)
	if err != nil {
		return false, err
	}

	score := CalculateHealthScore(*activity)
	return f.healthScoreRepo.UpsertForDay(ctx, &models.HealthScore{
		CompanyID:         company.ID,
		OverallScore:      score.Overall,
		EngagementScore:   score.Engagement,
		ProductUsageScore: score.ProductUsage,
		SupportScore:      score.Support,
		PaymentScore:      score.Payment,
		HealthStatus:      score.Status,
		RiskFactors:       models.StringArray(score.RiskFactors),
		Recommendations:   models.StringArray(score.Recommendations),
		CalculatedAt:      now,
	})
}

func (f *HealthScoreFlowImpl) gatherActivity(ctx context.Context, company *models.Company, now time.Time) (*CompanyActivity, error) {
	a := &CompanyActivity{Now: now, LastActiveAt: company.LastActiveAt}
	var err error

	if a.LeadsLast30Days, err = f.leadRepo.CountCreatedBetween(ctx, company.ID, now.Add(-leadWindow), now); err != nil {
		return nil, err
	}
	if a.LeadsPrior30Days, err = f.leadRepo.CountCreatedBetween(ctx, company.ID, now.Add(-2*leadWindow), now.Add(-leadWindow)); err != nil {
		return nil, err
	}

	active := true
	if a.TotalLandingPages, err = f.landingPageRepo.Count(ctx, models.LandingPageFilter{CompanyID: &company.ID}); err != nil {
		return nil, err
	}
	if a.ActiveLandingPages, err = f.landingPageRepo.Count(ctx, models.LandingPageFilter{CompanyID: &company.ID, IsActive: &active}); err != nil {
		return nil, err
	}

	openStatuses := []string{models.TicketStatusOpen, models.TicketStatusInProgress}
	urgent := models.TicketPriorityUrgent
	if a.OpenTickets, err = f.supportTicketRepo.Count(ctx, models.SupportTicketFilter{CompanyID: &company.ID, Statuses: openStatuses}); err != nil {
		return nil, err
	}
	if a.UrgentTickets, err = f.supportTicketRepo.Count(ctx, models.SupportTicketFilter{CompanyID: &company.ID, Statuses: openStatuses, Priority: &urgent}); err != nil {
		return nil, err
	}

	sub, err := f.subscriptionRepo.LatestByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		a.SubscriptionStatus = sub.Status
	}
	return a, nil
}
