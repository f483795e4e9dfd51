package services

import (
	"testing"
	"time"

	"github.com/mh853/Funnely-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSheetToLeads(t *testing.T) {
	mapping := models.ColumnMapping{
		Name:      "Name",
		Phone:     "Phone",
		Email:     "E-mail",
		CreatedAt: "Submitted",
		Custom:    map[string]string{"budget": "Budget", "region": "Region"},
	}
	rows := [][]string{
		{" name ", "PHONE", "e-mail", "Submitted", "Budget", "Region"},
		{"Kim", "010-1111-2222", "kim@example.com", "2026-04-01 09:30", "100", ""},
		{"  ", "010-3333-4444"},
		{"Lee", "n/a"},
		{"Park", "+82 10 5555 6666", "", "not a date", "", "Seoul"},
		{"Choi", "01077778888"},
	}

	leads := ParseSheetToLeads(rows, mapping)
	require.Len(t, leads, 3)

	kim := leads[0]
	assert.Equal(t, "Kim", kim.Name)
	assert.Equal(t, "010-1111-2222", kim.Phone)
	assert.Equal(t, "kim@example.com", kim.Email)
	require.NotNil(t, kim.CreatedAt)
	// 09:30 in Seoul
	assert.Equal(t, time.Date(2026, 4, 1, 0, 30, 0, 0, time.UTC), *kim.CreatedAt)
	assert.Equal(t, map[string]string{"budget": "100"}, kim.CustomFields)

	park := leads[1]
	assert.Equal(t, "Park", park.Name)
	assert.Empty(t, park.Email)
	assert.Nil(t, park.CreatedAt)
	assert.Equal(t, map[string]string{"region": "Seoul"}, park.CustomFields)

	choi := leads[2]
	assert.Nil(t, choi.CustomFields)
	assert.Nil(t, choi.CreatedAt)
}

func TestParseSheetToLeadsHeaderOnly(t *testing.T) {
	mapping := models.ColumnMapping{Name: "Name", Phone: "Phone"}
	assert.Empty(t, ParseSheetToLeads(nil, mapping))
	assert.Empty(t, ParseSheetToLeads([][]string{{"Name", "Phone"}}, mapping))
}

func TestParseSheetToLeadsUnknownHeader(t *testing.T) {
	mapping := models.ColumnMapping{Name: "Full name", Phone: "Phone"}
	rows := [][]string{{"Name", "Phone"}, {"Kim", "010-1111-2222"}}
	assert.Empty(t, ParseSheetToLeads(rows, mapping))
}

func TestParseSheetTime(t *testing.T) {
	tests := []struct {
		raw  string
		want *time.Time
	}{
		{raw: "2026-04-01T09:30:00Z", want: ptrTime(time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC))},
		{raw: "2026/04/01", want: ptrTime(time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC))},
		{raw: "2026.04.01 12:00:00", want: ptrTime(time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC))},
		{raw: "yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := parseSheetTime(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
