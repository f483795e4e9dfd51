package businessflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	testingutil "github.com/mh853/Funnely-sub001/testing"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(name, monthly string, yearly *string) *models.SubscriptionPlan {
	p := &models.SubscriptionPlan{Name: name, PriceMonthly: decimal.RequireFromString(monthly)}
	if yearly != nil {
		y := decimal.RequireFromString(*yearly)
		p.PriceYearly = &y
	}
	return p
}

func TestCalculateMRR(t *testing.T) {
	cases := []struct {
		name string
		sub  *models.Subscription
		want string
	}{
		{"monthly", &models.Subscription{BillingCycle: models.BillingCycleMonthly, Plan: plan("Pro", "100", nil)}, "100.00"},
		{"yearly with yearly price", &models.Subscription{BillingCycle: models.BillingCycleYearly, Plan: plan("Pro", "100", utils.ToPtr("1000"))}, "83.33"},
		{"yearly without yearly price", &models.Subscription{BillingCycle: models.BillingCycleYearly, Plan: plan("Pro", "100", nil)}, "100.00"},
		{"no plan", &models.Subscription{BillingCycle: models.BillingCycleMonthly}, "0.00"},
		{"nil", nil, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateMRR(tc.sub).StringFixed(2))
		})
	}
}

func TestCalculateCompanyRevenue(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	subs := []*models.Subscription{
		{CompanyID: a, Status: models.SubscriptionStatusActive, BillingCycle: models.BillingCycleMonthly, Plan: plan("Basic", "100", nil), CreatedAt: base},
		{CompanyID: b, Status: models.SubscriptionStatusActive, BillingCycle: models.BillingCycleMonthly, Plan: plan("Basic", "50", nil), CreatedAt: base},
		{CompanyID: a, Status: models.SubscriptionStatusActive, BillingCycle: models.BillingCycleYearly, Plan: plan("Pro", "100", utils.ToPtr("1000")), CreatedAt: base.AddDate(0, 1, 0)},
		{CompanyID: b, Status: models.SubscriptionStatusCanceled, BillingCycle: models.BillingCycleMonthly, Plan: plan("Max", "500", nil), CreatedAt: base.AddDate(0, 2, 0)},
	}

	got := CalculateCompanyRevenue(subs)
	require.Len(t, got, 2)

	assert.Equal(t, a, got[0].CompanyID)
	assert.Equal(t, "183.33", got[0].MRR.StringFixed(2))
	assert.Equal(t, "2200.00", got[0].ARR.StringFixed(2))
	assert.Equal(t, "Pro", got[0].PlanType)
	assert.Equal(t, models.BillingCycleYearly, got[0].BillingCycle)

	assert.Equal(t, b, got[1].CompanyID)
	assert.Equal(t, "50.00", got[1].MRR.StringFixed(2))
	assert.Equal(t, "600.00", got[1].ARR.StringFixed(2))
	assert.Equal(t, "Basic", got[1].PlanType)

	assert.Empty(t, CalculateCompanyRevenue(nil))
}

func TestCalculateCompanyRevenueKeepsYearlyPrice(t *testing.T) {
	subs := []*models.Subscription{
		{CompanyID: uuid.New(), Status: models.SubscriptionStatusActive, BillingCycle: models.BillingCycleYearly, Plan: plan("Pro", "10", utils.ToPtr("100"))},
	}

	got := CalculateCompanyRevenue(subs)
	require.Len(t, got, 1)
	assert.Equal(t, "8.33", got[0].MRR.StringFixed(2))
	assert.Equal(t, "100.00", got[0].ARR.StringFixed(2))
}

func TestRevenueFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fx := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		now := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

		metricRepo := repository.NewRevenueMetricRepository(testDB.DB)
		flow := NewRevenueFlow(repository.NewSubscriptionRepository(testDB.DB), metricRepo, quietLogger())

		company, err := fx.CreateTestCompany("Acme")
		require.NoError(t, err)
		monthly, err := fx.CreateTestPlan("Basic", "100.00", nil)
		require.NoError(t, err)
		yearly, err := fx.CreateTestPlan("Pro", "100.00", utils.ToPtr("1000.00"))
		require.NoError(t, err)
		_, err = fx.CreateTestSubscription(company.ID, monthly.ID, models.SubscriptionStatusActive, models.BillingCycleMonthly, now.AddDate(0, 1, 0))
		require.NoError(t, err)
		_, err = fx.CreateTestSubscription(company.ID, yearly.ID, models.SubscriptionStatusActive, models.BillingCycleYearly, now.AddDate(1, 0, 0))
		require.NoError(t, err)
		_, err = fx.CreateTestSubscription(company.ID, yearly.ID, models.SubscriptionStatusExpired, models.BillingCycleYearly, now.AddDate(0, 0, -1))
		require.NoError(t, err)

		result, err := flow.Run(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.CompaniesProcessed)
		assert.Equal(t, "183.33", result.TotalMRR)
		assert.Equal(t, "2200.00", result.TotalARR)

		metrics, err := metricRepo.LatestByCompany(ctx, company.ID, 5)
		require.NoError(t, err)
		require.Len(t, metrics, 1)
		assert.Equal(t, "183.33", metrics[0].MRR.StringFixed(2))
		assert.Nil(t, metrics[0].MRRGrowthRate)

		// snapshots are append-only
		_, err = flow.Run(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		count, err := metricRepo.Count(ctx, models.RevenueMetricFilter{CompanyID: &company.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		return nil
	})
	require.NoError(t, err)
}

func TestRevenueFlowNoSubscriptions(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := NewRevenueFlow(repository.NewSubscriptionRepository(testDB.DB), repository.NewRevenueMetricRepository(testDB.DB), quietLogger())
		result, err := flow.Run(testingutil.CreateTestContext(), utils.UTCNow())
		require.NoError(t, err)
		assert.Zero(t, result.CompaniesProcessed)
		assert.Equal(t, "0.00", result.TotalMRR)
		assert.Equal(t, "0.00", result.TotalARR)
		return nil
	})
	require.NoError(t, err)
}
