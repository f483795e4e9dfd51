package businessflow

import (
	"testing"
	"time"

	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	testingutil "github.com/mh853/Funnely-sub001/testing"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHealthScore(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Healthy", func(t *testing.T) {
		r := CalculateHealthScore(CompanyActivity{
			Now:                now,
			LastActiveAt:       utils.ToPtr(now.Add(-2 * time.Hour)),
			LeadsLast30Days:    80,
			ActiveLandingPages: 2,
			TotalLandingPages:  2,
			SubscriptionStatus: models.SubscriptionStatusActive,
		})
		assert.Equal(t, 100, r.Engagement)
		assert.Equal(t, 100, r.ProductUsage)
		assert.Equal(t, 100, r.Support)
		assert.Equal(t, 100, r.Payment)
		assert.Equal(t, 100, r.Overall)
		assert.Equal(t, models.HealthStatusHealthy, r.Status)
		assert.Empty(t, r.RiskFactors)
		assert.Empty(t, r.Recommendations)
	})

	t.Run("AtRisk", func(t *testing.T) {
		r := CalculateHealthScore(CompanyActivity{
			Now:                now,
			LastActiveAt:       utils.ToPtr(now.AddDate(0, 0, -10)),
			LeadsLast30Days:    11,
			ActiveLandingPages: 1,
			TotalLandingPages:  2,
			SubscriptionStatus: models.SubscriptionStatusTrial,
		})
		assert.Equal(t, 60, r.Engagement)
		assert.Equal(t, 36, r.ProductUsage)
		assert.Equal(t, 70, r.Payment)
		assert.Equal(t, 63, r.Overall)
		assert.Equal(t, models.HealthStatusAtRisk, r.Status)
		assert.Contains(t, r.RiskFactors, "Still on a trial plan")
	})

	t.Run("Critical", func(t *testing.T) {
		r := CalculateHealthScore(CompanyActivity{
			Now:           now,
			OpenTickets:   1,
			UrgentTickets: 1,
		})
		assert.Equal(t, 0, r.Engagement)
		assert.Equal(t, 0, r.ProductUsage)
		assert.Equal(t, 70, r.Support)
		assert.Equal(t, 0, r.Payment)
		assert.Equal(t, 14, r.Overall)
		assert.Equal(t, models.HealthStatusCritical, r.Status)
		assert.Equal(t, []string{
			"No recorded activity",
			"No active landing pages",
			"No leads in the last 30 days",
			"1 urgent support tickets open",
			"No active subscription",
		}, r.RiskFactors)
		assert.Len(t, r.Recommendations, len(r.RiskFactors))
	})

	t.Run("LeadDrop", func(t *testing.T) {
		r := CalculateHealthScore(CompanyActivity{
			Now:              now,
			LeadsLast30Days:  4,
			LeadsPrior30Days: 10,
		})
		assert.Contains(t, r.RiskFactors, "Lead volume dropped by more than half")
	})

	t.Run("SupportFloorsAtZero", func(t *testing.T) {
		r := CalculateHealthScore(CompanyActivity{Now: now, OpenTickets: 8, UrgentTickets: 4})
		assert.Equal(t, 0, r.Support)
	})
}

func TestHealthStatusFor(t *testing.T) {
	assert.Equal(t, models.HealthStatusHealthy, HealthStatusFor(100))
	assert.Equal(t, models.HealthStatusHealthy, HealthStatusFor(70))
	assert.Equal(t, models.HealthStatusAtRisk, HealthStatusFor(69))
	assert.Equal(t, models.HealthStatusAtRisk, HealthStatusFor(40))
	assert.Equal(t, models.HealthStatusCritical, HealthStatusFor(39))
	assert.Equal(t, models.HealthStatusCritical, HealthStatusFor(0))
}

func TestHealthScoreFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fx := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)

		scoreRepo := repository.NewHealthScoreRepository(testDB.DB)
		flow := NewHealthScoreFlow(
			repository.NewCompanyRepository(testDB.DB),
			repository.NewSubscriptionRepository(testDB.DB),
			repository.NewLeadRepository(testDB.DB),
			repository.NewLandingPageRepository(testDB.DB),
			repository.NewSupportTicketRepository(testDB.DB),
			scoreRepo,
			quietLogger(),
			2,
		)

		active, err := fx.CreateTestCompany("Acme")
		require.NoError(t, err)
		require.NoError(t, fx.MarkCompanyActive(active.ID, now.Add(-time.Hour)))
		quiet, err := fx.CreateTestCompany("Quiet")
		require.NoError(t, err)
		suspended, err := fx.CreateTestCompany("Gone")
		require.NoError(t, err)
		require.NoError(t, testDB.DB.Model(suspended).Update("status", models.CompanyStatusSuspended).Error)

		p, err := fx.CreateTestPlan("Pro", "100.00", nil)
		require.NoError(t, err)
		_, err = fx.CreateTestSubscription(active.ID, p.ID, models.SubscriptionStatusActive, models.BillingCycleMonthly, now.AddDate(0, 1, 0))
		require.NoError(t, err)
		_, err = fx.CreateTestLandingPage(active.ID, "acme", nil, false)
		require.NoError(t, err)
		for i := range 5 {
			_, err = fx.CreateTestLead(active.ID, "Lead", "010-0000-000"+string(rune('0'+i)), now.AddDate(0, 0, -i-1))
			require.NoError(t, err)
		}

		t.Run("FirstRunCreates", func(t *testing.T) {
			result, err := flow.Run(ctx, now)
			require.NoError(t, err)
			assert.Equal(t, 2, result.Scored)
			assert.Equal(t, 2, result.Created)
			assert.Zero(t, result.Updated)
			assert.Empty(t, result.Errors)

			score, err := scoreRepo.LatestByCompany(ctx, active.ID)
			require.NoError(t, err)
			require.NotNil(t, score)
			assert.Equal(t, 100, score.EngagementScore)
			assert.Equal(t, 55, score.ProductUsageScore)
			assert.Equal(t, 100, score.PaymentScore)
			assert.Equal(t, models.HealthStatusHealthy, score.HealthStatus)

			score, err = scoreRepo.LatestByCompany(ctx, quiet.ID)
			require.NoError(t, err)
			require.NotNil(t, score)
			assert.Equal(t, models.HealthStatusCritical, score.HealthStatus)
			assert.Contains(t, []string(score.RiskFactors), "No recorded activity")

			score, err = scoreRepo.LatestByCompany(ctx, suspended.ID)
			require.NoError(t, err)
			assert.Nil(t, score)
		})

		t.Run("SameDayUpdates", func(t *testing.T) {
			result, err := flow.Run(ctx, now.Add(6*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 2, result.Updated)
			assert.Zero(t, result.Created)

			count, err := scoreRepo.Count(ctx, models.HealthScoreFilter{CompanyID: &active.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("NextDayCreates", func(t *testing.T) {
			result, err := flow.Run(ctx, now.AddDate(0, 0, 1))
			require.NoError(t, err)
			assert.Equal(t, 2, result.Created)

			count, err := scoreRepo.Count(ctx, models.HealthScoreFilter{CompanyID: &active.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})
		return nil
	})
	require.NoError(t, err)
}
