package middleware

import (
	"papertrade-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. The ledger core itself is
// oblivious to sessions; this guard resolves the user identity that gets
// threaded into every settlement/valuation call.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetUserID extracts the logged-in user's id from the session user map.
// Session data round-trips through JSON, so numbers come back as float64.
func GetUserID(c *fiber.Ctx) (uint, bool) {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return 0, false
	}
	switch v := m["user_id"].(type) {
	case float64:
		return uint(v), true
	case uint:
		return v, true
	case int:
		return uint(v), true
	default:
		return 0, false
	}
}
