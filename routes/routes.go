package routes

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Musharaf05/HabitFlow/authentication/controllers"
	"github.com/Musharaf05/HabitFlow/authentication/middleware"
	"github.com/Musharaf05/HabitFlow/config"
	"github.com/Musharaf05/HabitFlow/handlers"
)

// Handlers bundles everything SetupRoutes wires into the app.
type Handlers struct {
	Auth      *controllers.AuthController
	Tasks     *handlers.TaskHandler
	Goals     *handlers.GoalHandler
	Habits    *handlers.HabitHandler
	Reminders *handlers.ReminderHandler
	Push      *handlers.PushHandler
}

// SetupRoutes registers the full HTTP surface.
func SetupRoutes(app *fiber.App, cfg config.Config, h Handlers) {
	authRequired := middleware.JwtAuthMiddleware(cfg.JWTSecret)
	authOptional := middleware.OptionalJwtMiddleware(cfg.JWTSecret)
	authLimit := middleware.RateLimit(rate.Every(time.Second), 5)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics",
		middleware.PresharedTokenMiddleware(cfg.MetricsToken),
		adaptor.HTTPHandler(promhttp.Handler()))

	// Accounts
	app.Post("/signup", authLimit, h.Auth.Signup)
	app.Post("/login", authLimit, h.Auth.Login)
	app.Get("/logout", h.Auth.Logout)
	app.Get("/me", authRequired, h.Auth.Me)
	app.Put("/settings", authRequired, h.Auth.UpdateSettings)

	// Tasks
	app.Get("/getTasks", authRequired, h.Tasks.GetTasks)
	app.Post("/addTask", authRequired, h.Tasks.AddTask)
	app.Put("/updateTask/:id", authRequired, h.Tasks.UpdateTask)
	app.Delete("/deleteTask/:id", authRequired, h.Tasks.DeleteTask)

	// Goals
	app.Get("/getGoals", authRequired, h.Goals.GetGoals)
	app.Post("/addGoal", authRequired, h.Goals.AddGoal)
	app.Put("/updateGoal/:id", authRequired, h.Goals.UpdateGoal)
	app.Delete("/deleteGoal/:id", authRequired, h.Goals.DeleteGoal)

	// Habits
	app.Get("/getHabits", authRequired, h.Habits.GetHabits)
	app.Post("/addHabit", authRequired, h.Habits.AddHabit)
	app.Put("/updateHabit/:id", authRequired, h.Habits.UpdateHabit)
	app.Delete("/deleteHabit/:id", authRequired, h.Habits.DeleteHabit)
	app.Post("/toggleHabit/:id", authRequired, h.Habits.ToggleHabit)

	// Reminders
	app.Get("/getReminders", authRequired, h.Reminders.GetReminders)
	app.Post("/addReminder", authRequired, h.Reminders.AddReminder)
	app.Put("/updateReminder/:id", authRequired, h.Reminders.UpdateReminder)
	app.Delete("/deleteReminder/:id", authRequired, h.Reminders.DeleteReminder)

	// Push
	app.Post("/save-fcm-token", authOptional, h.Push.SaveToken)
	app.Post("/send-fcm-notification", authRequired, h.Push.SendNotification)
	app.Post("/test-fcm", authRequired, h.Push.TestNotification)
}
