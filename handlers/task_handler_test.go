package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Musharaf05/HabitFlow/authentication/middleware"
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
)

// newAuthedApp returns a fiber app whose requests all run as the given
// user, bypassing the JWT middleware.
func newAuthedApp(uid uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserKey, uid)
		return c.Next()
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestTaskRoundTrip(t *testing.T) {
	uid := uuid.New()
	store := repositories.NewInMemoryTaskStore()
	h := NewTaskHandler(store)

	app := newAuthedApp(uid)
	app.Get("/getTasks", h.GetTasks)
	app.Post("/addTask", h.AddTask)

	resp := doJSON(t, app, http.MethodPost, "/addTask", fiber.Map{
		"text": "Buy milk",
		"tag":  "errands",
		"date": "2024-06-01",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/getTasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []models.Task
	decodeBody(t, resp, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.Equal(t, "errands", tasks[0].Tag)
	assert.Equal(t, "2024-06-01", tasks[0].Date)
	assert.Equal(t, "not started", tasks[0].Status, "status defaults when omitted")
	assert.NotEqual(t, uuid.Nil, tasks[0].ID)
}

func TestAddTaskValidation(t *testing.T) {
	app := newAuthedApp(uuid.New())
	h := NewTaskHandler(repositories.NewInMemoryTaskStore())
	app.Post("/addTask", h.AddTask)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing text", fiber.Map{"date": "2024-06-01"}},
		{"bad date", fiber.Map{"text": "x", "date": "June 1st"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/addTask", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	uid := uuid.New()
	store := repositories.NewInMemoryTaskStore()
	task := models.Task{OwnerID: uid, Text: "Read"}
	require.NoError(t, store.Create(&task))

	h := NewTaskHandler(store)
	app := newAuthedApp(uid)
	app.Put("/updateTask/:id", h.UpdateTask)

	resp := doJSON(t, app, http.MethodPut, "/updateTask/"+task.ID.String(), fiber.Map{
		"status": "IN PROGRESS",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := store.ByID(uid, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN PROGRESS", got.Status)
	assert.Equal(t, "Read", got.Text, "unspecified fields untouched")
}

type failingTaskStore struct {
	err error
}

func (s *failingTaskStore) Create(*models.Task) error { return s.err }
func (s *failingTaskStore) ByOwner(uuid.UUID) ([]models.Task, error) {
	return nil, s.err
}
func (s *failingTaskStore) ByID(uuid.UUID, uuid.UUID) (*models.Task, error) {
	return nil, s.err
}
func (s *failingTaskStore) Update(*models.Task) error        { return s.err }
func (s *failingTaskStore) Delete(uuid.UUID, uuid.UUID) error { return s.err }

func TestStoreFailureIsNot404(t *testing.T) {
	h := NewTaskHandler(&failingTaskStore{err: errors.New("connection refused")})
	app := newAuthedApp(uuid.New())
	app.Put("/updateTask/:id", h.UpdateTask)
	app.Delete("/deleteTask/:id", h.DeleteTask)

	resp := doJSON(t, app, http.MethodDelete, "/deleteTask/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode,
		"a persistence failure is not a missing row")

	resp = doJSON(t, app, http.MethodPut, "/updateTask/"+uuid.NewString(), fiber.Map{"text": "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestDeleteMissingTaskReturns404(t *testing.T) {
	uid := uuid.New()
	store := repositories.NewInMemoryTaskStore()
	h := NewTaskHandler(store)
	app := newAuthedApp(uid)
	app.Delete("/deleteTask/:id", h.DeleteTask)

	resp := doJSON(t, app, http.MethodDelete, "/deleteTask/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTaskOwnedByAnotherUserReturns404(t *testing.T) {
	owner := uuid.New()
	store := repositories.NewInMemoryTaskStore()
	task := models.Task{OwnerID: owner, Text: "private"}
	require.NoError(t, store.Create(&task))

	h := NewTaskHandler(store)
	app := newAuthedApp(uuid.New()) // a different user
	app.Put("/updateTask/:id", h.UpdateTask)

	resp := doJSON(t, app, http.MethodPut, "/updateTask/"+task.ID.String(), fiber.Map{
		"text": "stolen",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	got, err := store.ByID(owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Text)
}
