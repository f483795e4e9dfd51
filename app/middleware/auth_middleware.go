// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/mh853/Funnely-sub001/app/dto"
)

// CronAuthMiddleware guards cron triggers with a shared bearer secret
type CronAuthMiddleware struct {
	secret []byte
}

func NewCronAuthMiddleware(secret string) *CronAuthMiddleware {
	return &CronAuthMiddleware{secret: []byte(secret)}
}

// Authenticate rejects the request with 401 unless it carries "Authorization: Bearer <secret>".
// An empty configured secret rejects every request.
func (m *CronAuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get("Authorization"), "Bearer ")
		if !ok || token == "" || len(m.secret) == 0 ||
			subtle.ConstantTimeCompare([]byte(token), m.secret) != 1 {
			cronAuthRejectedTotal.Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.CronErrorResponse{Error: "Unauthorized"})
		}

		cronTriggersInFlight.Inc()
		defer cronTriggersInFlight.Dec()
		return c.Next()
	}
}
