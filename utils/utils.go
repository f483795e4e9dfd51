// Package utils provides clock, phone and pointer helpers shared across the service
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func ToPtr[T any](v T) *T {
	return &v
}

// NormalizePhone keeps only the ASCII digits of a phone number
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HashPhone returns the hex SHA-256 digest of the phone's digits.
// "010-1234-5678" and "(010) 1234 5678" hash identically.
func HashPhone(phone string) string {
	sum := sha256.Sum256([]byte(NormalizePhone(phone)))
	return hex.EncodeToString(sum[:])
}
