// internal/middleware/gateway_auth.go
package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Context keys for caller information (string keys for Fiber Locals)
const (
	UserIDContextKey   = "userID"
	DeviceIDContextKey = "deviceID"
)

// GatewayAuth trusts the identity headers set by the API gateway.
// X-User-ID must be a UUID; X-Device-ID is optional and passed through.
func GatewayAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		deviceID := c.Get("X-Device-ID")
		if userID == "" {
			log.Printf("[GATEWAY-AUTH] ❌ REJECTED | IP=%s | Path=%s | UserID=%q", c.IP(), c.Path(), userID)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: missing user context from Gateway",
			})
		}

		parsed, err := uuid.Parse(userID)
		if err != nil {
			log.Printf("[GATEWAY-AUTH] ❌ REJECTED (bad user id) | IP=%s | Path=%s | UserID=%q", c.IP(), c.Path(), userID)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: invalid X-User-ID",
			})
		}

		c.Locals(UserIDContextKey, parsed)
		c.Locals(DeviceIDContextKey, deviceID)
		return c.Next()
	}
}

func GetUserIDFromContext(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(UserIDContextKey)
	userID, ok := value.(uuid.UUID)
	if !ok {
		log.Printf("[GATEWAY-AUTH] GetUserIDFromContext: FAILED to retrieve userID from context, value=%v", value)
	}
	return userID, ok
}
