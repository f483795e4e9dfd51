package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodeColumnMapping(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expectErr bool
	}{
		{name: "Valid", raw: `{"name":"Name","phone":"Phone","custom":{"budget":"Budget"}}`},
		{name: "Empty", raw: ``, expectErr: true},
		{name: "NotJSON", raw: `{name}`, expectErr: true},
		{name: "MissingPhone", raw: `{"name":"Name"}`, expectErr: true},
		{name: "EmptyCustomHeader", raw: `{"name":"Name","phone":"Phone","custom":{"budget":""}}`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := decodeColumnMapping(datatypes.JSON(tt.raw))
			if tt.expectErr {
				require.Error(t, err)
				assert.True(t, IsDecodeFailed(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Phone", m.Phone)
			assert.Equal(t, "Budget", m.Custom["budget"])
		})
	}
}

func TestDecodeLeadDigestData(t *testing.T) {
	data, err := decodeLeadDigestData(datatypes.JSON(`{"name":"Kim","phone":"010-1111-2222","email":"kim@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "Kim", data.Name)

	// display-only fields are not format checked
	data, err = decodeLeadDigestData(datatypes.JSON(`{"name":"Kim","phone":"010","email":"kim at mail"}`))
	require.NoError(t, err)
	assert.Equal(t, "kim at mail", data.Email)

	// a document that parses but fails validation still comes back
	data, err = decodeLeadDigestData(datatypes.JSON(`{"name":"Lee"}`))
	assert.True(t, IsDecodeFailed(err))
	require.NotNil(t, data)
	assert.Equal(t, "Lee", data.Name)

	data, err = decodeLeadDigestData(datatypes.JSON(`{name}`))
	assert.True(t, IsDecodeFailed(err))
	assert.Nil(t, data)
}
