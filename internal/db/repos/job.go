// Package repos provides owner-partitioned access to the persisted entities
package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/db/models"
)

// ErrStageConflict is returned when a conditional stage update finds the job
// in a different stage than expected. It means another transition won the
// race; the caller must re-read the record instead of retrying blindly.
var ErrStageConflict = errors.New("job stage changed concurrently")

// JobRepository provides access to job-related database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := models.ValidateOwnerID(job.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a job by its ID, scoped to the owning user
func (r *JobRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Job, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var job models.Job
	err := r.db.WithContext(ctx).
		Where(&models.Job{ID: id, OwnerID: ownerID}).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// Update persists the full job record
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	if err := models.ValidateOwnerID(job.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Save(job).Error
}

// UpdateStage persists a stage transition conditionally: the write only
// applies while the stored record is still in the expected stage. A losing
// writer gets ErrStageConflict, which keeps a double approval or an approval
// racing a failure from clobbering a terminal state.
func (r *JobRepository) UpdateStage(ctx context.Context, job *models.Job, expected models.Stage) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND stage = ?", job.ID, expected).
		Updates(map[string]interface{}{
			"stage":            job.Stage,
			"progress":         job.Progress,
			"step_description": job.StepDescription,
			"agenda":           job.Agenda,
			"result_locator":   job.ResultLocator,
			"error_detail":     job.ErrorDetail,
			"review_notes":     job.ReviewNotes,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update job stage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStageConflict
	}
	return nil
}

// List returns the owner's jobs ordered newest first
func (r *JobRepository) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Job, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var jobs []models.Job
	query := r.db.WithContext(ctx).
		Where(&models.Job{OwnerID: ownerID}).
		Order(models.JobCreatedAtField + " DESC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&jobs).Error
	return jobs, err
}

// Count returns the number of jobs owned by the user
func (r *JobRepository) Count(ctx context.Context, ownerID string) (int64, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return 0, fmt.Errorf("invalid owner_id: %w", err)
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where(&models.Job{OwnerID: ownerID}).
		Count(&count).Error
	return count, err
}
