package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestStringArrayFieldsParse(t *testing.T) {
	cache := &sync.Map{}
	for _, model := range []any{&HealthScore{}, &LeadNotificationQueue{}} {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		assert.Empty(t, s.Relationships.Relations)
	}

	s, err := schema.Parse(&HealthScore{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)
	field := s.LookUpField("RiskFactors")
	require.NotNil(t, field)
	assert.Equal(t, schema.DataType("text"), field.DataType)
}

func TestStringArrayRoundTrip(t *testing.T) {
	v, err := StringArray{"low engagement", "late payment"}.Value()
	require.NoError(t, err)

	var got StringArray
	require.NoError(t, got.Scan(v))
	assert.Equal(t, StringArray{"low engagement", "late payment"}, got)

	// sqlite hands the literal back as a string
	require.NoError(t, got.Scan(`{a,"b c"}`))
	assert.Equal(t, StringArray{"a", "b c"}, got)
}
