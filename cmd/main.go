package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/slidesmith/slidesmith/config"
	"github.com/slidesmith/slidesmith/internal/agents"
	"github.com/slidesmith/slidesmith/internal/api/middleware"
	"github.com/slidesmith/slidesmith/internal/api/v1/handlers"
	"github.com/slidesmith/slidesmith/internal/api/v1/routes"
	"github.com/slidesmith/slidesmith/internal/artifacts"
	"github.com/slidesmith/slidesmith/internal/auth"
	"github.com/slidesmith/slidesmith/internal/constants"
	"github.com/slidesmith/slidesmith/internal/db"
	"github.com/slidesmith/slidesmith/internal/db/repos"
	"github.com/slidesmith/slidesmith/internal/logger"
	"github.com/slidesmith/slidesmith/internal/pipeline"
	"github.com/slidesmith/slidesmith/internal/services"
	"github.com/slidesmith/slidesmith/internal/types"
)

func main() {
	// Load .env file if present
	loadErr := godotenv.Load()

	logger.Initialize()
	if loadErr != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", "localhost"),
		User:     config.GetEnv("DB_USER", "postgres"),
		Password: config.GetEnv("DB_PASSWORD", "postgres"),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     mustAtoi(config.GetEnv("DB_PORT", "5432")),
		SSLMode:  config.GetEnv("DB_SSL_MODE", "disable"),
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	secret := os.Getenv(constants.EnvTokenSecret)
	if secret == "" {
		logger.Fatalf("%s must be set", constants.EnvTokenSecret)
	}
	authManager := auth.NewManager(secret)

	store, err := artifacts.NewFSStore(config.GetEnv(constants.EnvArtifactRoot, "artifacts"))
	if err != nil {
		logger.Fatalf("Failed to initialize artifact store: %v", err)
	}

	jobRepo := repos.NewJobRepository(database)
	historyRepo := repos.NewHistoryRepository(database)
	templateRepo := repos.NewTemplateRepository(database)
	settingsRepo := repos.NewSettingsRepository(database)

	timeout := agents.TimeoutFromEnv()
	caller := agents.NewHTTPCaller(agents.EndpointsFromEnv(), timeout)
	engine := pipeline.New(jobRepo, historyRepo, caller, timeout)

	generationService := services.NewGenerationService(jobRepo, historyRepo, settingsRepo, engine)
	templateService := services.NewTemplateService(templateRepo, store)
	settingsService := services.NewSettingsService(settingsRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app,
		authManager,
		handlers.NewGenerationHandler(generationService),
		handlers.NewTemplateHandler(templateService),
		handlers.NewSettingsHandler(settingsService),
	)

	// Graceful shutdown: stop accepting requests, then wait for running jobs
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			logger.Errorf("Error during server shutdown: %v", err)
		}
	}()

	port := config.GetEnv(constants.EnvAPIPort, routes.DefaultPort)
	logger.Infof("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		logger.Fatalf("Server error: %v", err)
	}

	engine.Wait()
	logger.Info("Server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(types.SlugResponse{
		Slug:  types.ServerErrorSlug,
		Error: err.Error(),
	})
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		logger.Fatalf("Invalid numeric value %q: %v", s, err)
	}
	return n
}
