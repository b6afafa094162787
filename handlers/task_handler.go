package handlers

import (
	"errors"
	"net/http"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// TaskHandler handles HTTP operations for tasks.
type TaskHandler struct {
	Store repositories.TaskStore
}

func NewTaskHandler(store repositories.TaskStore) *TaskHandler {
	return &TaskHandler{Store: store}
}

type addTaskRequest struct {
	Text   string `json:"text"`
	Tag    string `json:"tag"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

type updateTaskRequest struct {
	Text   *string `json:"text"`
	Tag    *string `json:"tag"`
	Date   *string `json:"date"`
	Status *string `json:"status"`
}

// GetTasks handles GET /getTasks.
func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	tasks, err := h.Store.ByOwner(owner)
	if err != nil {
		log.Error().Err(err).Msg("listing tasks")
		return serverError(c, "Failed to load tasks")
	}
	return c.JSON(tasks)
}

// AddTask handles POST /addTask.
func (h *TaskHandler) AddTask(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req addTaskRequest
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

	task := models.Task{
		OwnerID: owner,
		Text:    req.Text,
		Tag:     req.Tag,
		Date:    req.Date,
		Status:  req.Status,
	}
	if err := h.Store.Create(&task); err != nil {
		log.Error().Err(err).Msg("creating task")
		return serverError(c, "Failed to add task")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Task added",
		"id":      task.ID,
	})
}

// UpdateTask handles PUT /updateTask/:id.
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req updateTaskRequest
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

	task, err := h.Store.ByID(owner, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Task not found")
		}
		log.Error().Err(err).Msg("loading task")
		return serverError(c, "Failed to load task")
	}

	if req.Text != nil {
		if *req.Text == "" {
			return badRequest(c, "text cannot be empty")
		}
		task.Text = *req.Text
	}
	if req.Tag != nil {
		task.Tag = *req.Tag
	}
	if req.Date != nil {
		task.Date = *req.Date
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := h.Store.Update(task); err != nil {
		log.Error().Err(err).Msg("updating task")
		return serverError(c, "Failed to update task")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Task updated"})
}

// DeleteTask handles DELETE /deleteTask/:id.
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	owner, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	if err := h.Store.Delete(owner, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(c, "Task not found")
		}
		log.Error().Err(err).Msg("deleting task")
		return serverError(c, "Failed to delete task")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Task deleted"})
}
