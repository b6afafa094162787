package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// HabitHandler handles HTTP operations for habits, including the daily
// completion toggle.
type HabitHandler struct {
	Store repositories.HabitStore
	// now is swappable so tests can pin "today".
	now func() time.Time
}

func NewHabitHandler(store repositories.HabitStore) *HabitHandler {
	return &HabitHandler{Store: store, now: time.Now}
}

type addHabitRequest struct {
	Name string `json:"name"`
}

type updateHabitRequest struct {
	Name *string `json:"name"`
}

func (h *HabitHandler) GetHabits(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	habits, err := h.Store.ByOwner(owner)
	if err != nil {
		log.Error().Err(err).Msg("listing habits")
		return serverError(c, "Failed to load habits")
	}
	return c.JSON(habits)
}

func (h *HabitHandler) AddHabit(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req addHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	habit := models.Habit{OwnerID: owner, Name: req.Name, CompletedDates: []string{}}
	if err := h.Store.Create(&habit); err != nil {
		log.Error().Err(err).Msg("creating habit")
		return serverError(c, "Failed to add habit")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Habit added",
		"id":      habit.ID,
	})
}

func (h *HabitHandler) UpdateHabit(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid habit id")
	}

	var req updateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	habit, err := h.Store.ByID(owner, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Habit not found")
		}
		log.Error().Err(err).Msg("loading habit")
		return serverError(c, "Failed to load habit")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return badRequest(c, "name cannot be empty")
		}
		habit.Name = *req.Name
	}

	if err := h.Store.Update(habit); err != nil {
		log.Error().Err(err).Msg("updating habit")
		return serverError(c, "Failed to update habit")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Habit updated"})
}

func (h *HabitHandler) DeleteHabit(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid habit id")
	}

	if err := h.Store.Delete(owner, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Habit not found")
		}
		log.Error().Err(err).Msg("deleting habit")
		return serverError(c, "Failed to delete habit")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Habit deleted"})
}

// ToggleHabit handles POST /toggleHabit/:id. It flips today's membership
// in the completed-dates set; toggling twice on the same day is a no-op.
func (h *HabitHandler) ToggleHabit(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid habit id")
	}

	habit, err := h.Store.ByID(owner, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Habit not found")
		}
		log.Error().Err(err).Msg("loading habit")
		return serverError(c, "Failed to load habit")
	}

	today := h.now().Format(dateLayout)
	completed := habit.ToggleDay(today)

	if err := h.Store.Update(habit); err != nil {
		log.Error().Err(err).Msg("toggling habit")
		return serverError(c, "Failed to toggle habit")
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Habit toggled",
		"completed": completed,
	})
}
