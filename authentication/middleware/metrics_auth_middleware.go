package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// PresharedTokenMiddleware guards an endpoint with a static token carried
// in the X-Auth-Token header. An empty configured secret disables the
// guard. Used for /metrics.
func PresharedTokenMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		token := c.Get("X-Auth-Token")
		if token == "" || token != secret {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: Invalid or missing auth token",
			})
		}

		return c.Next()
	}
}
