package dto

import "time"

// APIResponse is the envelope of the service's non-cron endpoints. The cron
// trigger answers with DailyTaskReport or CronErrorResponse instead.
type APIResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Data      any          `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// ErrorDetail carries a stable machine-readable code
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
