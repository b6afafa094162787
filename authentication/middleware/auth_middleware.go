package middleware

import (
	"net/http"
	"strings"

	"github.com/Musharaf05/HabitFlow/authentication/util"
	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key under which the authenticated user's UUID is
// stored for handlers.
const UserKey = "x-user-id"

func tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies("jwt"); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// JwtAuthMiddleware rejects requests without a valid session token.
func JwtAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing session token"})
		}

		userID, err := util.ExtractUserID(token, secret)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authorized or invalid token"})
		}

		c.Locals(UserKey, userID)
		return c.Next()
	}
}

// OptionalJwtMiddleware attaches the user when a valid token is present
// and lets the request through either way. Used by token registration,
// where a device may check in before anyone logs in on it.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := tokenFromRequest(c); token != "" {
			if userID, err := util.ExtractUserID(token, secret); err == nil {
				c.Locals(UserKey, userID)
			}
		}
		return c.Next()
	}
}
