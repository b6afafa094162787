package handlers

import (
	"errors"
	"net/http"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// GoalHandler handles HTTP operations for goals.
type GoalHandler struct {
	Store repositories.GoalStore
}

func NewGoalHandler(store repositories.GoalStore) *GoalHandler {
	return &GoalHandler{Store: store}
}

type addGoalRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

type updateGoalRequest struct {
	Text *string `json:"text"`
	Date *string `json:"date"`
	Done *bool   `json:"done"`
}

func (h *GoalHandler) GetGoals(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	goals, err := h.Store.ByOwner(owner)
	if err != nil {
		log.Error().Err(err).Msg("listing goals")
		return serverError(c, "Failed to load goals")
	}
	return c.JSON(goals)
}

func (h *GoalHandler) AddGoal(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req addGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Text == "" {
		return badRequest(c, "text is required")
	}
	if req.Date != "" {
		date, ok := normalizeDate(req.Date)
		if !ok {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		req.Date = date
	}

	goal := models.Goal{OwnerID: owner, Text: req.Text, Date: req.Date}
	if err := h.Store.Create(&goal); err != nil {
		log.Error().Err(err).Msg("creating goal")
		return serverError(c, "Failed to add goal")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Goal added",
		"id":      goal.ID,
	})
}

func (h *GoalHandler) UpdateGoal(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	var req updateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Date != nil && *req.Date != "" {
		date, ok := normalizeDate(*req.Date)
		if !ok {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		req.Date = &date
	}

	goal, err := h.Store.ByID(owner, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Goal not found")
		}
		log.Error().Err(err).Msg("loading goal")
		return serverError(c, "Failed to load goal")
	}

	if req.Text != nil {
		if *req.Text == "" {
			return badRequest(c, "text cannot be empty")
		}
		goal.Text = *req.Text
	}
	if req.Date != nil {
		goal.Date = *req.Date
	}
	if req.Done != nil {
		goal.Done = *req.Done
	}

	if err := h.Store.Update(goal); err != nil {
		log.Error().Err(err).Msg("updating goal")
		return serverError(c, "Failed to update goal")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Goal updated"})
}

func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	if err := h.Store.Delete(owner, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Goal not found")
		}
		log.Error().Err(err).Msg("deleting goal")
		return serverError(c, "Failed to delete goal")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Goal deleted"})
}
