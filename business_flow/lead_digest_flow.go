package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/app/services"
	"github.com/mh853/Funnely-sub001/config"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	"github.com/mh853/Funnely-sub001/utils"
)

const fallbackCompanyName = "Your company"

// LeadDigestFlow sends one email per recipient per company covering every queued lead notice
type LeadDigestFlow interface {
	Run(ctx context.Context, now time.Time) (*dto.LeadDigestResult, error)
}

type LeadDigestFlowImpl struct {
	queueRepo   repository.LeadNotificationQueueRepository
	logRepo     repository.LeadNotificationLogRepository
	companyRepo repository.CompanyRepository
	sender      services.EmailSender
	emailCfg    config.EmailConfig
	logger      *log.Logger
}

func NewLeadDigestFlow(
	queueRepo repository.LeadNotificationQueueRepository,
	logRepo repository.LeadNotificationLogRepository,
	companyRepo repository.CompanyRepository,
	sender services.EmailSender,
	emailCfg config.EmailConfig,
	logger *log.Logger,
) LeadDigestFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &LeadDigestFlowImpl{
		queueRepo:   queueRepo,
		logRepo:     logRepo,
		companyRepo: companyRepo,
		sender:      sender,
		emailCfg:    emailCfg,
		logger:      logger,
	}
}

// digestLead is one numbered entry of a digest
type digestLead struct {
	Number      int
	Name        string
	Phone       string
	Email       string
	LandingPage string
	Device      string
	Time        string
}

type digestView struct {
	CompanyName  string
	Count        int
	Leads        []digestLead
	DashboardURL string
}

func (f *LeadDigestFlowImpl) Run(ctx context.Context, now time.Time) (*dto.LeadDigestResult, error) {
	now = now.UTC()
	result := &dto.LeadDigestResult{}

	exhausted, err := f.queueRepo.CountExhausted(ctx, utils.MaxLeadNotificationRetries)
	if err != nil {
		return nil, NewBusinessError("LEAD_QUEUE_EXHAUSTED_COUNT_FAILED", "Failed to count exhausted lead notifications", err)
	}
	result.Exhausted = exhausted
	leadDigestExhausted.Set(float64(exhausted))
	if exhausted > 0 {
		f.logger.Printf("lead digest: WARNING %d notifications reached %d retries and will not be sent", exhausted, utils.MaxLeadNotificationRetries)
	}

	pending, err := f.queueRepo.ListPending(ctx, utils.MaxLeadNotificationRetries)
	if err != nil {
		return nil, NewBusinessError("LEAD_QUEUE_QUERY_FAILED", "Failed to list pending lead notifications", err)
	}
	if len(pending) == 0 {
		return result, nil
	}
	if f.sender == nil {
		return nil, NewBusinessError("EMAIL_PROVIDER_NOT_CONFIGURED", "No email sender configured", ErrEmailProviderNotConfigured)
	}

	// group by company keeping arrival order
	var order []uuid.UUID
	groups := make(map[uuid.UUID][]*models.LeadNotificationQueue)
	for _, item := range pending {
		if _, ok := groups[item.CompanyID]; !ok {
			order = append(order, item.CompanyID)
		}
		groups[item.CompanyID] = append(groups[item.CompanyID], item)
	}

	names, err := f.companyRepo.NamesByIDs(ctx, order)
	if err != nil {
		return nil, NewBusinessError("COMPANY_NAMES_QUERY_FAILED", "Failed to load company names", err)
	}

	for _, companyID := range order {
		name := names[companyID]
		if strings.TrimSpace(name) == "" {
			name = fallbackCompanyName
		}

		sent, failed := f.dispatchCompany(ctx, companyID, name, groups[companyID], now)
		result.EmailsSent += sent
		result.EmailsFailed += failed

		// best effort: the whole batch is marked once dispatch was attempted
		ids := make([]uuid.UUID, 0, len(groups[companyID]))
		for _, item := range groups[companyID] {
			ids = append(ids, item.ID)
		}
		marked, err := f.queueRepo.MarkSent(ctx, ids, now)
		if err != nil {
			f.logger.Printf("lead digest: company %s: failed to mark notifications sent: %v", companyID, err)
		}
		result.NotificationsMarked += marked
		result.CompaniesProcessed++
	}

	return result, nil
}

// dispatchCompany sends the company's digest to each recipient of its first queued notice and
// logs every (notice, recipient) attempt. It returns the sent and failed email counts.
func (f *LeadDigestFlowImpl) dispatchCompany(ctx context.Context, companyID uuid.UUID, companyName string, items []*models.LeadNotificationQueue, now time.Time) (int, int) {
	recipients := uniqueRecipients(items[0].RecipientEmails)
	if len(recipients) == 0 {
		f.logger.Printf("lead digest: company %s: %v", companyID, ErrCompanyHasNoRecipients)
		return 0, 0
	}

	view := digestView{
		CompanyName:  companyName,
		Count:        len(items),
		DashboardURL: strings.TrimRight(f.emailCfg.AppURL, "/") + "/dashboard/leads",
	}
	for i, item := range items {
		view.Leads = append(view.Leads, f.toDigestLead(i+1, item))
	}

	html, err := renderDigestHTML(view)
	if err != nil {
		f.logger.Printf("lead digest: company %s: failed to render digest: %v", companyID, err)
		html = ""
	}
	msg := services.EmailMessage{
		FromEmail: f.emailCfg.FromEmail,
		FromName:  f.emailCfg.FromName,
		Subject:   fmt.Sprintf("[%s] %d new lead(s)", companyName, len(items)),
		HTML:      html,
		Text:      renderDigestText(view),
	}

	sent, failed := 0, 0
	var logs []*models.LeadNotificationLog
	for _, recipient := range recipients {
		msg.To = []string{recipient}
		emailID, err := f.sender.SendEmail(ctx, msg)

		var idPtr, errPtr *string
		if err != nil {
			failed++
			errPtr = utils.ToPtr(err.Error())
			f.logger.Printf("lead digest: company %s: failed to send to %s: %v", companyID, recipient, err)
		} else {
			sent++
			idPtr = utils.ToPtr(emailID)
		}
		for _, item := range items {
			logs = append(logs, &models.LeadNotificationLog{
				NotificationID: item.ID,
				CompanyID:      companyID,
				RecipientEmail: recipient,
				Success:        err == nil,
				EmailID:        idPtr,
				ErrorMessage:   errPtr,
				SentAt:         now,
			})
		}
	}

	if err := f.logRepo.SaveBatch(ctx, logs); err != nil {
		f.logger.Printf("lead digest: company %s: failed to write delivery logs: %v", companyID, err)
	}
	return sent, failed
}

func (f *LeadDigestFlowImpl) toDigestLead(n int, item *models.LeadNotificationQueue) digestLead {
	lead := digestLead{Number: n, Time: utils.FormatRegional(item.CreatedAt)}

	data, err := decodeLeadDigestData(item.LeadData)
	if err != nil {
		f.logger.Printf("lead digest: notification %s: %v", item.ID, err)
	}
	if data == nil {
		lead.Name = "-"
		lead.Phone = "-"
		return lead
	}

	lead.Name = orDash(data.Name)
	lead.Phone = orDash(data.Phone)
	lead.Email = orDash(data.Email)
	lead.LandingPage = orDash(data.LandingPageTitle)
	lead.Device = orDash(data.DeviceType)
	if data.CreatedAt != nil {
		lead.Time = utils.FormatRegional(*data.CreatedAt)
	}
	return lead
}

func uniqueRecipients(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if e == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var digestHTMLTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>{{.CompanyName}}: {{.Count}} new lead(s)</h2>
  <ol>
  {{- range .Leads}}
    <li>
      <strong>{{.Name}}</strong> {{.Phone}}<br>
      Email: {{.Email}}<br>
      Landing page: {{.LandingPage}}<br>
      Device: {{.Device}}<br>
      Received: {{.Time}} (KST)
    </li>
  {{- end}}
  </ol>
  <p><a href="{{.DashboardURL}}">Open the lead dashboard</a></p>
</body>
</html>`))

func renderDigestHTML(v digestView) (string, error) {
	var buf bytes.Buffer
	if err := digestHTMLTemplate.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderDigestText(v digestView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d new lead(s)\n\n", v.CompanyName, v.Count)
	for _, l := range v.Leads {
		fmt.Fprintf(&b, "%d. %s (%s)\n", l.Number, l.Name, l.Phone)
		fmt.Fprintf(&b, "   Email: %s\n", l.Email)
		fmt.Fprintf(&b, "   Landing page: %s\n", l.LandingPage)
		fmt.Fprintf(&b, "   Device: %s\n", l.Device)
		fmt.Fprintf(&b, "   Received: %s (KST)\n\n", l.Time)
	}
	fmt.Fprintf(&b, "Open the lead dashboard: %s\n", v.DashboardURL)
	return b.String()
}
