package services

import (
	"strings"
	"time"

	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/utils"
)

// ParsedLead is one spreadsheet row mapped through a ColumnMapping
type ParsedLead struct {
	Name         string
	Phone        string
	Email        string
	CustomFields map[string]string
	CreatedAt    *time.Time
}

var sheetTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006.01.02 15:04:05",
	"2006.01.02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseSheetToLeads maps data rows to leads. Row 0 is the header row; mapping values name
// header cells (case-insensitive). Rows without a name or a phone with digits are dropped.
func ParseSheetToLeads(rows [][]string, mapping models.ColumnMapping) []ParsedLead {
	if len(rows) < 2 {
		return nil
	}

	headers := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if _, dup := headers[key]; !dup && key != "" {
			headers[key] = i
		}
	}
	cell := func(row []string, header string) string {
		if header == "" {
			return ""
		}
		i, ok := headers[normalizeHeader(header)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	leads := make([]ParsedLead, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, mapping.Name)
		phone := cell(row, mapping.Phone)
		if name == "" || utils.NormalizePhone(phone) == "" {
			continue
		}

		lead := ParsedLead{
			Name:  name,
			Phone: phone,
			Email: cell(row, mapping.Email),
		}
		if raw := cell(row, mapping.CreatedAt); raw != "" {
			lead.CreatedAt = parseSheetTime(raw)
		}
		for field, header := range mapping.Custom {
			if v := cell(row, header); v != "" {
				if lead.CustomFields == nil {
					lead.CustomFields = make(map[string]string)
				}
				lead.CustomFields[field] = v
			}
		}
		leads = append(leads, lead)
	}
	return leads
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// parseSheetTime reads a timestamp cell. Values without a zone are in the regional timezone.
func parseSheetTime(raw string) *time.Time {
	loc := utils.RegionalLocation()
	for _, layout := range sheetTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
