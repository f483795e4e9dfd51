package businessflow

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	testingutil "github.com/mh853/Funnely-sub001/testing"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSubscriptionExpiryFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fx := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		now := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

		subRepo := repository.NewSubscriptionRepository(testDB.DB)
		notificationRepo := repository.NewNotificationRepository(testDB.DB)
		flow := NewSubscriptionExpiryFlow(subRepo, notificationRepo, repository.NewNotificationSentLogRepository(testDB.DB), testDB.DB, quietLogger())

		company, err := fx.CreateTestCompany("Acme")
		require.NoError(t, err)
		plan, err := fx.CreateTestPlan("Pro", "100.00", nil)
		require.NoError(t, err)

		expiring, err := fx.CreateTestSubscription(company.ID, plan.ID, models.SubscriptionStatusActive, models.BillingCycleMonthly, now.AddDate(0, 0, 3))
		require.NoError(t, err)
		later, err := fx.CreateTestSubscription(company.ID, plan.ID, models.SubscriptionStatusActive, models.BillingCycleMonthly, now.AddDate(0, 0, 10))
		require.NoError(t, err)
		inGrace, err := fx.CreateTestSubscription(company.ID, plan.ID, models.SubscriptionStatusActive, models.BillingCycleMonthly, now.AddDate(0, 0, -1))
		require.NoError(t, err)
		grace := now.AddDate(0, 0, 2)
		require.NoError(t, testDB.DB.Model(inGrace).Update("grace_period_end", grace).Error)
		lapsed, err := fx.CreateTestSubscription(company.ID, plan.ID, models.SubscriptionStatusTrial, models.BillingCycleMonthly, now.AddDate(0, 0, -1))
		require.NoError(t, err)

		t.Run("FirstRun", func(t *testing.T) {
			result, err := flow.Run(ctx, now)
			require.NoError(t, err)
			assert.Equal(t, 1, result.ExpiringSoonNotified)
			assert.Equal(t, 1, result.MovedToPastDue)
			assert.Equal(t, 1, result.Expired)
			assert.Zero(t, result.Failed)

			got, err := subRepo.ByID(ctx, inGrace.ID)
			require.NoError(t, err)
			assert.Equal(t, models.SubscriptionStatusPastDue, got.Status)

			got, err = subRepo.ByID(ctx, lapsed.ID)
			require.NoError(t, err)
			assert.Equal(t, models.SubscriptionStatusExpired, got.Status)

			got, err = subRepo.ByID(ctx, later.ID)
			require.NoError(t, err)
			assert.Equal(t, models.SubscriptionStatusActive, got.Status)

			expiringType := models.NotificationTypeSubscriptionExpiring
			notices, err := notificationRepo.ByFilter(ctx, models.NotificationFilter{Type: &expiringType}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, notices, 1)
			assert.Equal(t, company.ID, notices[0].CompanyID)
			assert.Equal(t, billingSettingsLink, notices[0].Link)
			assert.Contains(t, notices[0].Message, "Pro")
			assert.Contains(t, notices[0].Message, utils.FormatRegional(expiring.CurrentPeriodEnd))

			expiredType := models.NotificationTypeSubscriptionExpired
			count, err := notificationRepo.Count(ctx, models.NotificationFilter{Type: &expiredType})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("RerunSameDayIsIdempotent", func(t *testing.T) {
			result, err := flow.Run(ctx, now.Add(time.Hour))
			require.NoError(t, err)
			assert.Zero(t, result.ExpiringSoonNotified)
			assert.Zero(t, result.MovedToPastDue)
			assert.Zero(t, result.Expired)

			count, err := notificationRepo.Count(ctx, models.NotificationFilter{CompanyID: &company.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("GraceElapsed", func(t *testing.T) {
			result, err := flow.Run(ctx, grace.Add(time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 1, result.Expired)

			got, err := subRepo.ByID(ctx, inGrace.ID)
			require.NoError(t, err)
			assert.Equal(t, models.SubscriptionStatusExpired, got.Status)
		})
		return nil
	})
	require.NoError(t, err)
}
