package utils

import (
	"time"
)

// Regional display constants
const (
	// RegionalTimezone is the IANA zone used for dates shown to customers
	RegionalTimezone = "Asia/Seoul"

	// RegionalDisplayLayout is the layout for dates shown to customers
	RegionalDisplayLayout = "2006-01-02 15:04"
)

// Daily task constants
const (
	// ExpiringSoonWindow is how far ahead of current_period_end an expiring notice is sent
	ExpiringSoonWindow = 7 * 24 * time.Hour

	// MaxLeadNotificationRetries bounds digest eligibility on retry_count
	MaxLeadNotificationRetries = 3

	// SheetSyncColumnRange is the fixed column span fetched from each sheet
	SheetSyncColumnRange = "A:Z"

	// LeadSourceGoogleSheets marks leads imported by the sheet sync
	LeadSourceGoogleSheets = "google_sheets"

	// DailyTasksLockKey is the redis key guarding overlapping daily runs
	DailyTasksLockKey = "cron:daily-tasks:lock"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

type contextKey string

// Request context keys
const (
	RequestIDKey contextKey = "request_id"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
)
