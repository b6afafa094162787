package handlers

import (
	"net/http"
	"time"

	"github.com/Musharaf05/HabitFlow/authentication/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(middleware.UserKey).(uuid.UUID)
	return id, ok
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// normalizeDate re-formats user input to the canonical zero-padded form.
// time.Parse accepts "2024-6-1" for this layout, but the stores compare
// these values as strings, so only the padded form may be persisted.
func normalizeDate(s string) (string, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(dateLayout), true
}

func normalizeTime(s string) (string, bool) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(timeLayout), true
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"success": false, "message": msg})
}

func serverError(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": msg})
}
