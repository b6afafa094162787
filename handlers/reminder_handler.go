package handlers

import (
	"errors"
	"net/http"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ReminderHandler handles HTTP operations for reminders. The dispatch
// loop, not this handler, is what marks a reminder sent.
type ReminderHandler struct {
	Store repositories.ReminderStore
}

func NewReminderHandler(store repositories.ReminderStore) *ReminderHandler {
	return &ReminderHandler{Store: store}
}

type addReminderRequest struct {
	Text   string `json:"text"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Repeat string `json:"repeat"`
}

type updateReminderRequest struct {
	Text   *string `json:"text"`
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Repeat *string `json:"repeat"`
}

func (h *ReminderHandler) GetReminders(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	reminders, err := h.Store.ByOwner(owner)
	if err != nil {
		log.Error().Err(err).Msg("listing reminders")
		return serverError(c, "Failed to load reminders")
	}
	return c.JSON(reminders)
}

func (h *ReminderHandler) AddReminder(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req addReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Text == "" {
		return badRequest(c, "text is required")
	}
	date, ok := normalizeDate(req.Date)
	if !ok {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	req.Date = date
	if req.Time != "" {
		tm, ok := normalizeTime(req.Time)
		if !ok {
			return badRequest(c, "time must be HH:MM")
		}
		req.Time = tm
	}

	reminder := models.Reminder{
		OwnerID:    owner,
		Text:       req.Text,
		RemindDate: req.Date,
		RemindTime: req.Time,
		Repeat:     req.Repeat,
	}
	if err := h.Store.Create(&reminder); err != nil {
		log.Error().Err(err).Msg("creating reminder")
		return serverError(c, "Failed to add reminder")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Reminder added",
		"id":      reminder.ID,
	})
}

func (h *ReminderHandler) UpdateReminder(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid reminder id")
	}

	var req updateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Date != nil {
		date, ok := normalizeDate(*req.Date)
		if !ok {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		req.Date = &date
	}
	if req.Time != nil && *req.Time != "" {
		tm, ok := normalizeTime(*req.Time)
		if !ok {
			return badRequest(c, "time must be HH:MM")
		}
		req.Time = &tm
	}

	reminder, err := h.Store.ByID(owner, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Reminder not found")
		}
		log.Error().Err(err).Msg("loading reminder")
		return serverError(c, "Failed to load reminder")
	}

	if req.Text != nil {
		if *req.Text == "" {
			return badRequest(c, "text cannot be empty")
		}
		reminder.Text = *req.Text
	}
	if req.Date != nil {
		reminder.RemindDate = *req.Date
	}
	if req.Time != nil {
		reminder.RemindTime = *req.Time
	}
	if req.Repeat != nil {
		reminder.Repeat = *req.Repeat
	}

	if err := h.Store.Update(reminder); err != nil {
		log.Error().Err(err).Msg("updating reminder")
		return serverError(c, "Failed to update reminder")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Reminder updated"})
}

func (h *ReminderHandler) DeleteReminder(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid reminder id")
	}

	if err := h.Store.Delete(owner, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Reminder not found")
		}
		log.Error().Err(err).Msg("deleting reminder")
		return serverError(c, "Failed to delete reminder")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Reminder deleted"})
}
