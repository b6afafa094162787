package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Musharaf05/HabitFlow/authentication/controllers"
	"github.com/Musharaf05/HabitFlow/config"
	"github.com/Musharaf05/HabitFlow/handlers"
	"github.com/Musharaf05/HabitFlow/notify"
	"github.com/Musharaf05/HabitFlow/repositories"
)

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, tokens []string, msg notify.Message) (*notify.Result, error) {
	return &notify.Result{}, nil
}

func newApp(cfg config.Config) *fiber.App {
	app := fiber.New()
	SetupRoutes(app, cfg, Handlers{
		Auth:      controllers.NewAuthController(repositories.NewInMemoryUserStore(), cfg.JWTSecret),
		Tasks:     handlers.NewTaskHandler(repositories.NewInMemoryTaskStore()),
		Goals:     handlers.NewGoalHandler(repositories.NewInMemoryGoalStore()),
		Habits:    handlers.NewHabitHandler(repositories.NewInMemoryHabitStore()),
		Reminders: handlers.NewReminderHandler(repositories.NewInMemoryReminderStore()),
		Push:      handlers.NewPushHandler(repositories.NewInMemoryTokenStore(), noopNotifier{}),
	})
	return app
}

func TestHealthz(t *testing.T) {
	app := newApp(config.Config{JWTSecret: "s"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsGuard(t *testing.T) {
	app := newApp(config.Config{JWTSecret: "s", MetricsToken: "scrape-secret"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-Auth-Token", "scrape-secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsOpenWhenNoTokenConfigured(t *testing.T) {
	app := newApp(config.Config{JWTSecret: "s"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
