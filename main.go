package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Musharaf05/HabitFlow/authentication/controllers"
	"github.com/Musharaf05/HabitFlow/config"
	"github.com/Musharaf05/HabitFlow/database"
	"github.com/Musharaf05/HabitFlow/dispatch"
	"github.com/Musharaf05/HabitFlow/handlers"
	"github.com/Musharaf05/HabitFlow/logging"
	"github.com/Musharaf05/HabitFlow/notify"
	"github.com/Musharaf05/HabitFlow/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not an error: production reads real environment variables.
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Init(cfg.Env)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Msg("database connected and migrated")

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Msg("redis connected")

	notifier, err := notify.NewFCMNotifier(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize FCM")
	}

	users := database.NewUserStore(db)
	tasks := database.NewTaskStore(db)
	goals := database.NewGoalStore(db)
	habits := database.NewHabitStore(db)
	reminders := database.NewReminderStore(db)
	tokens := database.NewCachedTokenStore(database.NewTokenStore(db), rdb)

	dispatcher := dispatch.New(reminders, tokens, notifier, cfg.DispatchInterval, cfg.MarkTokenlessSent)
	go dispatcher.Run(ctx)

	app := fiber.New()
	routes.SetupRoutes(app, cfg, routes.Handlers{
		Auth:      controllers.NewAuthController(users, cfg.JWTSecret),
		Tasks:     handlers.NewTaskHandler(tasks),
		Goals:     handlers.NewGoalHandler(goals),
		Habits:    handlers.NewHabitHandler(habits),
		Reminders: handlers.NewReminderHandler(reminders),
		Push:      handlers.NewPushHandler(tokens, notifier),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
