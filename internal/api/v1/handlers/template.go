package handlers

import (
	"errors"
	"io"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/slidesmith/slidesmith/internal/api/middleware"
	"github.com/slidesmith/slidesmith/internal/services"
	"github.com/slidesmith/slidesmith/internal/types"
)

// TemplateHandler handles HTTP requests for slide templates
type TemplateHandler struct {
	service *services.Template
}

// NewTemplateHandler creates a new template handler instance
func NewTemplateHandler(service *services.Template) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// UploadTemplate handles a multipart template upload
func (h *TemplateHandler) UploadTemplate(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("template file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("unable to read template file"))
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("unable to read template file"))
	}

	template, err := h.service.Upload(
		c.Context(),
		middleware.CallerID(c),
		fileHeader.Filename,
		c.FormValue("name"),
		c.FormValue("description"),
		data,
	)
	if errors.Is(err, services.ErrUnsupportedTemplate) {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(types.Success(template))
}

// ListTemplates handles the request to list the caller's templates
func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	opts := getPaginationOptions(page)

	templates, err := h.service.List(c.Context(), middleware.CallerID(c), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(templates))
}

// DeleteTemplate handles the request to delete a template
func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("template id is required"))
	}

	err := h.service.Delete(c.Context(), middleware.CallerID(c), id)
	if errors.Is(err, services.ErrTemplateNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound("template not found"))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
