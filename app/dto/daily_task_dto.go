package dto

import "encoding/json"

const (
	TaskStatusSuccess = "success"
	TaskStatusPartial = "partial"
	TaskStatusError   = "error"

	SheetSyncStatusSuccess = "success"
	SheetSyncStatusSkipped = "skipped"
	SheetSyncStatusEmpty   = "empty"
	SheetSyncStatusError   = "error"
)

// DailyTaskReport is the aggregate result of one daily run
type DailyTaskReport struct {
	Timestamp     string       `json:"timestamp"`
	TasksExecuted []TaskResult `json:"tasksExecuted"`
}

// TaskResult is one job's outcome. Fields is flattened into the JSON object next to task and status.
type TaskResult struct {
	Task   string `json:"task"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Fields any    `json:"-"`
}

func (r TaskResult) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if r.Fields != nil {
		raw, err := json.Marshal(r.Fields)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
	}

	out["task"] = r.Task
	out["status"] = r.Status
	if r.Error != "" {
		out["error"] = r.Error
	}
	return json.Marshal(out)
}

// SubscriptionExpiryResult summarizes the subscription expiry check
type SubscriptionExpiryResult struct {
	ExpiringSoonNotified int `json:"expiringSoonNotified"`
	MovedToPastDue       int `json:"movedToPastDue"`
	Expired              int `json:"expired"`
	Failed               int `json:"failed"`
}

// RevenueCalculationResult summarizes the revenue rollup. Totals are decimal strings.
type RevenueCalculationResult struct {
	CompaniesProcessed int    `json:"companiesProcessed"`
	TotalMRR           string `json:"totalMrr"`
	TotalARR           string `json:"totalArr"`
}

// HealthScoreRunResult summarizes health scoring. Errors holds one message per failed company.
type HealthScoreRunResult struct {
	Scored  int      `json:"scored"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// SheetSyncConfigResult is the outcome of one spreadsheet integration
type SheetSyncConfigResult struct {
	ConfigID   string `json:"configId"`
	Status     string `json:"status"`
	Imported   int    `json:"imported"`
	Duplicates int    `json:"duplicates"`
	TotalRows  int    `json:"totalRows"`
	Error      string `json:"error,omitempty"`
}

// SheetSyncRunResult summarizes the spreadsheet sync
type SheetSyncRunResult struct {
	ConfigsProcessed int                     `json:"configsProcessed"`
	Imported         int                     `json:"imported"`
	Results          []SheetSyncConfigResult `json:"results"`
}

// GrowthDetectionResult summarizes growth opportunity detection
type GrowthDetectionResult struct {
	Success              bool `json:"-"`
	CompaniesAnalyzed    int  `json:"companiesAnalyzed"`
	OpportunitiesCreated int  `json:"opportunitiesCreated"`
	Failed               int  `json:"failed"`
}

// LeadDigestResult summarizes the lead digest dispatch.
// Exhausted counts unsent notices that ran out of retries and are no longer picked up.
type LeadDigestResult struct {
	CompaniesProcessed  int   `json:"companiesProcessed"`
	EmailsSent          int   `json:"emailsSent"`
	EmailsFailed        int   `json:"emailsFailed"`
	NotificationsMarked int64 `json:"notificationsMarked"`
	Exhausted           int64 `json:"exhausted"`
}

// TimerSweepResult summarizes the expired timer sweep
type TimerSweepResult struct {
	Disabled int64 `json:"disabled"`
}

// CronErrorResponse is the body of a failed cron trigger
type CronErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
