package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mh853/Funnely-sub001/app/services"
	"github.com/mh853/Funnely-sub001/config"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	testingutil "github.com/mh853/Funnely-sub001/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEmailConfig = config.EmailConfig{
	Provider:  "mock",
	FromEmail: "noreply@example.com",
	FromName:  "Leads",
	AppURL:    "https://app.example.com/",
}

// failingSender rejects one recipient and delegates the rest
type failingSender struct {
	services.EmailSender
	reject string
}

func (s *failingSender) SendEmail(ctx context.Context, msg services.EmailMessage) (string, error) {
	if len(msg.To) == 1 && msg.To[0] == s.reject {
		return "", errors.New("mailbox unavailable")
	}
	return s.EmailSender.SendEmail(ctx, msg)
}

type digestRepos struct {
	queue   repository.LeadNotificationQueueRepository
	logs    repository.LeadNotificationLogRepository
	company repository.CompanyRepository
}

func newDigestRepos(testDB *testingutil.TestDB) digestRepos {
	return digestRepos{
		queue:   repository.NewLeadNotificationQueueRepository(testDB.DB),
		logs:    repository.NewLeadNotificationLogRepository(testDB.DB),
		company: repository.NewCompanyRepository(testDB.DB),
	}
}

func TestLeadDigestFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fx := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		repos := newDigestRepos(testDB)
		now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

		acme, err := fx.CreateTestCompany("Acme")
		require.NoError(t, err)
		quiet, err := fx.CreateTestCompany("Quiet")
		require.NoError(t, err)

		recipients := []string{"owner@acme.com", "sales@acme.com", "Owner@acme.com"}
		for i, name := range []string{"Kim", "Lee", "Park"} {
			_, err := fx.CreateTestQueuedNotification(acme.ID, recipients, models.LeadDigestData{
				Name:             name,
				Phone:            "010-0000-000" + string(rune('1'+i)),
				LandingPageTitle: "Spring promo",
			}, now.Add(-time.Duration(3-i)*time.Hour))
			require.NoError(t, err)
		}
		_, err = fx.CreateTestQueuedNotification(quiet.ID, nil, models.LeadDigestData{Name: "Choi", Phone: "010-9999-0000"}, now.Add(-time.Hour))
		require.NoError(t, err)

		exhausted, err := fx.CreateTestQueuedNotification(acme.ID, recipients, models.LeadDigestData{Name: "Old", Phone: "010-1234-0000"}, now.AddDate(0, 0, -5))
		require.NoError(t, err)
		require.NoError(t, testDB.DB.Model(exhausted).Update("retry_count", 3).Error)

		sender := services.NewMockEmailSender(quietLogger())
		flow := NewLeadDigestFlow(repos.queue, repos.logs, repos.company, sender, testEmailConfig, quietLogger())

		result, err := flow.Run(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 2, result.CompaniesProcessed)
		assert.Equal(t, 2, result.EmailsSent)
		assert.Zero(t, result.EmailsFailed)
		assert.Equal(t, int64(4), result.NotificationsMarked)
		assert.Equal(t, int64(1), result.Exhausted)

		sent := sender.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, []string{"owner@acme.com"}, sent[0].To)
		assert.Equal(t, []string{"sales@acme.com"}, sent[1].To)
		assert.Equal(t, "[Acme] 3 new lead(s)", sent[0].Subject)
		assert.Contains(t, sent[0].HTML, "https://app.example.com/dashboard/leads")
		assert.Contains(t, sent[0].Text, "1. Kim")
		assert.Contains(t, sent[0].Text, "3. Park")
		assert.NotContains(t, sent[0].Text, "Old")

		logCount, err := repos.logs.Count(ctx, models.LeadNotificationLogFilter{CompanyID: &acme.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(6), logCount)

		pending, err := repos.queue.ListPending(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, pending)

		// nothing left to send
		result, err = flow.Run(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, result.CompaniesProcessed)
		assert.Len(t, sender.Sent(), 2)
		return nil
	})
	require.NoError(t, err)
}

func TestLeadDigestFlowSendFailure(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fx := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		repos := newDigestRepos(testDB)

		company, err := fx.CreateTestCompany("Acme")
		require.NoError(t, err)
		_, err = fx.CreateTestQueuedNotification(company.ID, []string{"a@acme.com", "b@acme.com"},
			models.LeadDigestData{Name: "Kim", Phone: "010-1111-2222"}, time.Now().UTC())
		require.NoError(t, err)

		sender := &failingSender{EmailSender: services.NewMockEmailSender(quietLogger()), reject: "b@acme.com"}
		flow := NewLeadDigestFlow(repos.queue, repos.logs, repos.company, sender, testEmailConfig, quietLogger())

		result, err := flow.Run(ctx, time.Now().UTC())
		require.NoError(t, err)
		assert.Equal(t, 1, result.EmailsSent)
		assert.Equal(t, 1, result.EmailsFailed)
		assert.Equal(t, int64(1), result.NotificationsMarked)

		failed := false
		logs, err := repos.logs.ByFilter(ctx, models.LeadNotificationLogFilter{Success: &failed}, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "b@acme.com", logs[0].RecipientEmail)
		require.NotNil(t, logs[0].ErrorMessage)
		assert.Contains(t, *logs[0].ErrorMessage, "mailbox unavailable")
		return nil
	})
	require.NoError(t, err)
}

func TestLeadDigestFlowWithoutSender(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fx := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		repos := newDigestRepos(testDB)
		flow := NewLeadDigestFlow(repos.queue, repos.logs, repos.company, nil, testEmailConfig, quietLogger())

		result, err := flow.Run(ctx, time.Now().UTC())
		require.NoError(t, err)
		assert.Zero(t, result.CompaniesProcessed)

		company, err := fx.CreateTestCompany("Acme")
		require.NoError(t, err)
		_, err = fx.CreateTestQueuedNotification(company.ID, []string{"a@acme.com"},
			models.LeadDigestData{Name: "Kim", Phone: "010-1111-2222"}, time.Now().UTC())
		require.NoError(t, err)

		_, err = flow.Run(ctx, time.Now().UTC())
		assert.ErrorIs(t, err, ErrEmailProviderNotConfigured)
		return nil
	})
	require.NoError(t, err)
}

func TestLeadDigestFlowKeepsMalformedLeadData(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fx := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		repos := newDigestRepos(testDB)
		now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

		company, err := fx.CreateTestCompany("Acme")
		require.NoError(t, err)
		_, err = fx.CreateTestQueuedNotification(company.ID, []string{"owner@acme.com"},
			models.LeadDigestData{Name: "Kim", Phone: "010-1111-2222", Email: "kim at mail"}, now.Add(-2*time.Hour))
		require.NoError(t, err)
		_, err = fx.CreateTestQueuedNotification(company.ID, []string{"owner@acme.com"},
			models.LeadDigestData{Name: "Lee"}, now.Add(-time.Hour))
		require.NoError(t, err)

		sender := services.NewMockEmailSender(quietLogger())
		flow := NewLeadDigestFlow(repos.queue, repos.logs, repos.company, sender, testEmailConfig, quietLogger())

		result, err := flow.Run(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.EmailsSent)

		sent := sender.Sent()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Text, "1. Kim (010-1111-2222)")
		assert.Contains(t, sent[0].Text, "Email: kim at mail")
		assert.Contains(t, sent[0].Text, "2. Lee (-)")
		return nil
	})
	require.NoError(t, err)
}

func TestUniqueRecipients(t *testing.T) {
	got := uniqueRecipients([]string{" a@x.com ", "A@x.com", "", "b@x.com"})
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)
}

func TestRenderDigestEscapesHTML(t *testing.T) {
	html, err := renderDigestHTML(digestView{
		CompanyName: "Acme",
		Count:       1,
		Leads:       []digestLead{{Number: 1, Name: "<script>x</script>", Phone: "010"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
