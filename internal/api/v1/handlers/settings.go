package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/slidesmith/slidesmith/internal/api/middleware"
	"github.com/slidesmith/slidesmith/internal/services"
	"github.com/slidesmith/slidesmith/internal/types"
)

// SettingsHandler handles HTTP requests for user settings
type SettingsHandler struct {
	service *services.Settings
}

// NewSettingsHandler creates a new settings handler instance
func NewSettingsHandler(service *services.Settings) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings handles the request to get the caller's settings
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.Context(), middleware.CallerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(settings))
}

// UpdateSettings handles a partial settings update
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req types.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("invalid request body"))
	}

	settings, err := h.service.Update(c.Context(), middleware.CallerID(c), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(settings))
}
