package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Header carries the API key.
const Header = "X-API-Key"

// LocalsKey is the fiber.Ctx locals key holding the authenticated principal id.
const LocalsKey = "principal"

// Config configures the API key middleware.
type Config struct {
	// ApiKey is the expected key. Empty disables authentication: reads pass and no
	// principal is resolved, so every mutation is refused downstream.
	ApiKey string
	// Principal is the id bound to requests presenting ApiKey.
	Principal string
}

// New returns a middleware checking the API key and resolving the principal.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}

		key := c.Get(Header)
		if key == "" {
			key = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		}

		c.Locals(LocalsKey, cfg.Principal)
		return c.Next()
	}
}

// Principal returns the principal id resolved for the request, or "".
func Principal(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalsKey).(string); ok {
		return id
	}
	return ""
}
