// Package services provides the business logic between the API surface and
// the pipeline engine and repositories.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/db/models"
	"github.com/slidesmith/slidesmith/internal/db/repos"
	"github.com/slidesmith/slidesmith/internal/pipeline"
	"github.com/slidesmith/slidesmith/internal/types"
)

// Generation service errors
var (
	// ErrInvalidRequest marks a malformed start or approval request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrJobNotFound marks a missing job id / owner pair
	ErrJobNotFound = errors.New("job not found")
	// ErrNotAwaitingApproval marks a decision for a job not waiting at approval
	ErrNotAwaitingApproval = pipeline.ErrNotAwaitingApproval
)

// Generation drives generation jobs: it owns job creation and delegates stage
// execution and approval decisions to the pipeline engine.
type Generation struct {
	jobs     *repos.JobRepository
	history  *repos.HistoryRepository
	settings *repos.SettingsRepository
	engine   *pipeline.Engine
}

// NewGenerationService creates a new generation service instance
func NewGenerationService(jobs *repos.JobRepository, history *repos.HistoryRepository, settings *repos.SettingsRepository, engine *pipeline.Engine) *Generation {
	return &Generation{
		jobs:     jobs,
		history:  history,
		settings: settings,
		engine:   engine,
	}
}

// StartJob validates the request, creates the job record, and starts the
// pipeline asynchronously. The created job is returned immediately.
func (s *Generation) StartJob(ctx context.Context, ownerID string, req *types.GenerateRequest) (*models.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	req.ApplyDefaults()

	// An explicit request value wins; the stored default only fills in when
	// the request leaves the flag unset.
	var autoApproval bool
	if req.AutoApproval != nil {
		autoApproval = *req.AutoApproval
	} else if s.settings != nil {
		if stored, err := s.settings.Get(ctx, ownerID); err == nil {
			autoApproval = stored.AutoApproval
		}
	}

	job := &models.Job{
		OwnerID:       ownerID,
		Prompt:        req.Prompt,
		ReferenceURLs: req.ReferenceURLs,
		TemplateID:    req.TemplateID,
		MaxSlides:     req.MaxSlides,
		AutoApproval:  autoApproval,
		IncludeImages: req.IncludeImages,
		IncludeTables: req.IncludeTables,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.engine.Start(job)
	return job, nil
}

// DecideApproval feeds an approve/reject decision into the state machine
func (s *Generation) DecideApproval(ctx context.Context, ownerID string, req *types.ApprovalRequest) (*models.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	job, err := s.engine.Decide(ctx, ownerID, req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Join(ErrJobNotFound, err)
	}
	return job, err
}

// CancelJob requests cooperative cancellation of a job
func (s *Generation) CancelJob(ctx context.Context, ownerID, jobID string) error {
	err := s.engine.Cancel(ctx, ownerID, jobID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Join(ErrJobNotFound, err)
	}
	return err
}

// GetJob retrieves a job scoped to its owner
func (s *Generation) GetJob(ctx context.Context, ownerID, jobID string) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, ownerID, jobID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Join(ErrJobNotFound, err)
	}
	return job, err
}

// ListJobs returns the owner's jobs, newest first
func (s *Generation) ListJobs(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Job, error) {
	return s.jobs.List(ctx, ownerID, opts)
}

// ListHistory returns the owner's generation history, newest first
func (s *Generation) ListHistory(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.HistoryEntry, error) {
	return s.history.List(ctx, ownerID, opts)
}
