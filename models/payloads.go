package models

import "time"

// ColumnMapping maps lead fields to sheet header names.
// Stored in sheet_sync_configs.column_mapping, e.g.
//
//	{"name":"Name","phone":"Phone","email":"E-mail","created_at":"Submitted","custom":{"budget":"Budget"}}
type ColumnMapping struct {
	Name      string            `json:"name" validate:"required"`
	Phone     string            `json:"phone" validate:"required"`
	Email     string            `json:"email,omitempty"`
	CreatedAt string            `json:"created_at,omitempty"`
	Custom    map[string]string `json:"custom,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// LeadDigestData is the lead snapshot carried by a queued lead notification
type LeadDigestData struct {
	Name             string     `json:"name"`
	Phone            string     `json:"phone" validate:"required"`
	Email            string     `json:"email,omitempty"`
	LandingPageTitle string     `json:"landing_page_title,omitempty"`
	DeviceType       string     `json:"device_type,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
}
