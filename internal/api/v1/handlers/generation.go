// Package handlers provides HTTP request handling
package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/slidesmith/slidesmith/internal/api/middleware"
	"github.com/slidesmith/slidesmith/internal/services"
	"github.com/slidesmith/slidesmith/internal/types"
)

// GenerationHandler handles HTTP requests for generation jobs
type GenerationHandler struct {
	service *services.Generation
}

// NewGenerationHandler creates a new generation handler instance
func NewGenerationHandler(service *services.Generation) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// StartJob handles the request to start a new generation job
func (h *GenerationHandler) StartJob(c *fiber.Ctx) error {
	var req types.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("invalid request body"))
	}

	job, err := h.service.StartJob(c.Context(), middleware.CallerID(c), &req)
	if errors.Is(err, services.ErrInvalidRequest) {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.Status(fiber.StatusAccepted).JSON(types.Success(types.StartResponse{
		JobID: job.ID,
		Stage: job.Stage.String(),
	}))
}

// DecideApproval handles an approve/reject decision for an agenda
func (h *GenerationHandler) DecideApproval(c *fiber.Ctx) error {
	var req types.ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("invalid request body"))
	}

	job, err := h.service.DecideApproval(c.Context(), middleware.CallerID(c), &req)
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	case errors.Is(err, services.ErrJobNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound("job not found"))
	case errors.Is(err, services.ErrNotAwaitingApproval):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrInvalidInput(err.Error()))
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(types.DecisionResponse{
		JobID: job.ID,
		Stage: job.Stage.String(),
	}))
}

// CancelJob handles a cooperative cancellation request
func (h *GenerationHandler) CancelJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("job id is required"))
	}

	err := h.service.CancelJob(c.Context(), middleware.CallerID(c), jobID)
	if errors.Is(err, services.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound("job not found"))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(nil))
}

// GetJob handles the request to get a job by id
func (h *GenerationHandler) GetJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("job id is required"))
	}

	job, err := h.service.GetJob(c.Context(), middleware.CallerID(c), jobID)
	if errors.Is(err, services.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound("job not found"))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(job))
}

// ListJobs handles the request to list the caller's jobs
func (h *GenerationHandler) ListJobs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	opts := getPaginationOptions(page)

	jobs, err := h.service.ListJobs(c.Context(), middleware.CallerID(c), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(map[string]interface{}{
		"jobs": jobs,
		"pagination": types.PaginationResponse{
			Total:  len(jobs),
			Page:   page,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	}))
}

// ListHistory handles the request to list the caller's generation history
func (h *GenerationHandler) ListHistory(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	opts := getPaginationOptions(page)

	entries, err := h.service.ListHistory(c.Context(), middleware.CallerID(c), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(map[string]interface{}{
		"history": entries,
		"pagination": types.PaginationResponse{
			Total:  len(entries),
			Page:   page,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	}))
}
