package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// RequestID returns the id assigned by the requestid middleware, falling back to the
// caller's X-Request-ID header. The result is safe to keep after the handler returns.
func RequestID(c fiber.Ctx) string {
	if id := requestid.FromContext(c); id != "" {
		return strings.Clone(id)
	}
	return strings.Clone(c.Get(fiber.HeaderXRequestID))
}
