package testing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCompany creates an active company
func (tf *TestFixtures) CreateTestCompany(name string) (*models.Company, error) {
	company := &models.Company{
		Name:   name,
		Status: models.CompanyStatusActive,
	}
	if err := tf.DB.DB.Create(company).Error; err != nil {
		return nil, fmt.Errorf("failed to create test company: %w", err)
	}
	return company, nil
}

// CreateTestPlan creates a plan; yearly may be nil
func (tf *TestFixtures) CreateTestPlan(name string, monthly string, yearly *string) (*models.SubscriptionPlan, error) {
	plan := &models.SubscriptionPlan{
		Name:         name,
		PriceMonthly: decimal.RequireFromString(monthly),
	}
	if yearly != nil {
		y := decimal.RequireFromString(*yearly)
		plan.PriceYearly = &y
	}
	if err := tf.DB.DB.Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create test plan: %w", err)
	}
	return plan, nil
}

// CreateTestSubscription creates a subscription of company on plan
func (tf *TestFixtures) CreateTestSubscription(companyID, planID uuid.UUID, status, cycle string, periodEnd time.Time) (*models.Subscription, error) {
	sub := &models.Subscription{
		CompanyID:        companyID,
		PlanID:           planID,
		Status:           status,
		BillingCycle:     cycle,
		CurrentPeriodEnd: periodEnd.UTC(),
	}
	if err := tf.DB.DB.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create test subscription: %w", err)
	}
	return sub, nil
}

// CreateTestLead creates a lead with the given phone at createdAt
func (tf *TestFixtures) CreateTestLead(companyID uuid.UUID, name, phone string, createdAt time.Time) (*models.Lead, error) {
	lead := &models.Lead{
		CompanyID: companyID,
		Name:      name,
		Phone:     phone,
		Source:    "landing_page",
		Status:    models.LeadStatusNew,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}
	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}
	return lead, nil
}

// CreateTestLandingPage creates an active landing page, optionally with a timer deadline
func (tf *TestFixtures) CreateTestLandingPage(companyID uuid.UUID, slug string, deadline *time.Time, autoUpdate bool) (*models.LandingPage, error) {
	page := &models.LandingPage{
		CompanyID:       companyID,
		Title:           "Page " + slug,
		Slug:            slug,
		IsActive:        true,
		TimerEnabled:    deadline != nil,
		TimerAutoUpdate: autoUpdate,
		TimerDeadline:   deadline,
	}
	if err := tf.DB.DB.Create(page).Error; err != nil {
		return nil, fmt.Errorf("failed to create test landing page: %w", err)
	}
	return page, nil
}

// CreateTestSheetConfig creates an active sheet integration with the given mapping
func (tf *TestFixtures) CreateTestSheetConfig(companyID uuid.UUID, spreadsheetID, sheetName string, mapping models.ColumnMapping) (*models.SheetSyncConfig, error) {
	raw, err := json.Marshal(mapping)
	if err != nil {
		return nil, err
	}
	cfg := &models.SheetSyncConfig{
		CompanyID:           companyID,
		SpreadsheetID:       spreadsheetID,
		SheetName:           sheetName,
		ColumnMapping:       datatypes.JSON(raw),
		SyncIntervalMinutes: 60,
		IsActive:            true,
	}
	if err := tf.DB.DB.Create(cfg).Error; err != nil {
		return nil, fmt.Errorf("failed to create test sheet config: %w", err)
	}
	return cfg, nil
}

// CreateTestQueuedNotification queues a lead notice for recipients
func (tf *TestFixtures) CreateTestQueuedNotification(companyID uuid.UUID, recipients []string, data models.LeadDigestData, createdAt time.Time) (*models.LeadNotificationQueue, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	item := &models.LeadNotificationQueue{
		CompanyID:       companyID,
		LeadID:          uuid.New(),
		RecipientEmails: models.StringArray(recipients),
		LeadData:        datatypes.JSON(raw),
		CreatedAt:       createdAt.UTC(),
	}
	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test queued notification: %w", err)
	}
	return item, nil
}

// CreateTestTicket creates a support ticket
func (tf *TestFixtures) CreateTestTicket(companyID uuid.UUID, status, priority string) (*models.SupportTicket, error) {
	ticket := &models.SupportTicket{
		CompanyID: companyID,
		Title:     "Help",
		Status:    status,
		Priority:  priority,
	}
	if err := tf.DB.DB.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ticket: %w", err)
	}
	return ticket, nil
}

// MarkCompanyActive sets the company's last activity time
func (tf *TestFixtures) MarkCompanyActive(companyID uuid.UUID, at time.Time) error {
	return tf.DB.DB.Model(&models.Company{}).Where("id = ?", companyID).
		Update("last_active_at", utils.ToPtr(at.UTC())).Error
}
