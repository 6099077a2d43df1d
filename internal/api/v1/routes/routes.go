// Package routes defines the API routes and URL structure
package routes

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/slidesmith/slidesmith/internal/api/middleware"
	"github.com/slidesmith/slidesmith/internal/api/v1/handlers"
	"github.com/slidesmith/slidesmith/internal/auth"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Generation routes
	StartJob       = "StartJob"
	DecideApproval = "DecideApproval"
	CancelJob      = "CancelJob"
	GetJob         = "GetJob"
	ListJobs       = "ListJobs"
	ListHistory    = "ListHistory"

	// Template routes
	ListTemplates  = "ListTemplates"
	UploadTemplate = "UploadTemplate"
	DeleteTemplate = "DeleteTemplate"

	// Settings routes
	GetSettings    = "GetSettings"
	UpdateSettings = "UpdateSettings"
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the
// order they are registered. Param urls (ie /:id) go after their fixed-path
// siblings, otherwise fiber interprets the fixed slug as that param.
func RegisterRoutes(
	app *fiber.App,
	authManager *auth.Manager,
	generationHandler *handlers.GenerationHandler,
	templateHandler *handlers.TemplateHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	// Health check, the only unauthenticated endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	v1 := app.Group(APIv1Prefix, middleware.Auth(authManager))

	// Generation endpoints
	v1.Post("/generate", generationHandler.StartJob).Name(StartJob)
	v1.Post("/approve", generationHandler.DecideApproval).Name(DecideApproval)

	jobs := v1.Group("/jobs")
	jobs.Get("/", generationHandler.ListJobs).Name(ListJobs)
	jobs.Get("/:id", generationHandler.GetJob).Name(GetJob)
	jobs.Post("/:id/cancel", generationHandler.CancelJob).Name(CancelJob)

	v1.Get("/history", generationHandler.ListHistory).Name(ListHistory)

	// Template endpoints
	templates := v1.Group("/templates")
	templates.Get("/", templateHandler.ListTemplates).Name(ListTemplates)
	templates.Post("/", templateHandler.UploadTemplate).Name(UploadTemplate)
	templates.Delete("/:id", templateHandler.DeleteTemplate).Name(DeleteTemplate)

	// Settings endpoints
	settings := v1.Group("/settings")
	settings.Get("/", settingsHandler.GetSettings).Name(GetSettings)
	settings.Put("/", settingsHandler.UpdateSettings).Name(UpdateSettings)
}
