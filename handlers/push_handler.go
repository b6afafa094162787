package handlers

import (
	"net/http"

	"github.com/Musharaf05/HabitFlow/metrics"
	"github.com/Musharaf05/HabitFlow/notify"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authmw "github.com/Musharaf05/HabitFlow/authentication/middleware"
)

// PushHandler handles delivery-token registration and manual sends.
type PushHandler struct {
	Tokens   repositories.TokenStore
	Notifier notify.Notifier
}

func NewPushHandler(tokens repositories.TokenStore, notifier notify.Notifier) *PushHandler {
	return &PushHandler{Tokens: tokens, Notifier: notifier}
}

type saveTokenRequest struct {
	Token string `json:"token"`
}

type sendRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SaveToken handles POST /save-fcm-token. Registration is idempotent on
// the token string; a logged-in session re-owns the token, an anonymous
// one leaves ownership as-is for a later login to claim.
func (h *PushHandler) SaveToken(c *fiber.Ctx) error {
	var req saveTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Token == "" {
		return badRequest(c, "token is required")
	}

	var owner *uuid.UUID
	if id, ok := c.Locals(authmw.UserKey).(uuid.UUID); ok {
		owner = &id
	}

	if _, err := h.Tokens.Upsert(owner, req.Token); err != nil {
		log.Error().Err(err).Msg("saving delivery token")
		return serverError(c, "Failed to save token")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Token saved"})
}

// SendNotification handles POST /send-fcm-notification: a manual push to
// all of the caller's registered devices.
func (h *PushHandler) SendNotification(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" || req.Body == "" {
		return badRequest(c, "title and body are required")
	}

	return h.send(c, owner, notify.Message{Title: req.Title, Body: req.Body})
}

// TestNotification handles POST /test-fcm with a canned message.
func (h *PushHandler) TestNotification(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	return h.send(c, owner, notify.Message{
		Title: "HabitFlow Notifications Enabled",
		Body:  "You will receive reminder notifications at the scheduled time!",
	})
}

func (h *PushHandler) send(c *fiber.Ctx, owner uuid.UUID, msg notify.Message) error {
	rows, err := h.Tokens.ByOwner(owner)
	if err != nil {
		log.Error().Err(err).Msg("resolving delivery tokens")
		return serverError(c, "Failed to resolve tokens")
	}
	if len(rows) == 0 {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "No registered devices",
			"sent":    0,
			"failed":  0,
		})
	}

	tokens := make([]string, len(rows))
	for i, row := range rows {
		tokens[i] = row.Token
	}

	res, err := h.Notifier.Send(c.Context(), tokens, msg)
	if err != nil {
		log.Error().Err(err).Msg("manual notification send failed")
		return serverError(c, "Failed to send notification")
	}

	metrics.NotificationsSent.Add(float64(res.Success))
	metrics.NotificationsFailed.Add(float64(res.Failure))

	if len(res.InvalidTokens) > 0 {
		if err := h.Tokens.DeleteTokens(res.InvalidTokens); err != nil {
			log.Error().Err(err).Msg("pruning invalid tokens")
		} else {
			metrics.TokensPruned.Add(float64(len(res.InvalidTokens)))
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": res.Success > 0,
		"message": "Notification dispatched",
		"sent":    res.Success,
		"failed":  res.Failure,
	})
}
