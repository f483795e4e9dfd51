package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"010-1234-5678":    "01012345678",
		"(010) 1234 5678":  "01012345678",
		"+82 10 1234 5678": "821012345678",
		"":                 "",
		"abc":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestHashPhoneIgnoresPunctuation(t *testing.T) {
	a := HashPhone("010-1234-5678")
	b := HashPhone("(010)1234.5678")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashPhone("010-1234-5679"))
}

func TestUTCDayRange(t *testing.T) {
	at := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	start, end := UTCDayRange(at)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), end)

	// a non-UTC instant falls on its UTC day
	seoul := time.FixedZone("KST", 9*60*60)
	start, _ = UTCDayRange(time.Date(2026, 3, 15, 5, 0, 0, 0, seoul))
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)
}

func TestFormatRegional(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-02 12:04", FormatRegional(at))
}
