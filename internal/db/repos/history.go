package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/db/models"
)

// HistoryRepository provides access to generation history records
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository instance
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create appends a new history entry
func (r *HistoryRepository) Create(ctx context.Context, entry *models.HistoryEntry) error {
	if err := models.ValidateOwnerID(entry.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns the owner's history entries ordered newest first
func (r *HistoryRepository) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.HistoryEntry, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var entries []models.HistoryEntry
	query := r.db.WithContext(ctx).
		Where(&models.HistoryEntry{OwnerID: ownerID}).
		Order(models.JobCreatedAtField + " DESC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// ListByJob returns the history entries recorded for a single job
func (r *HistoryRepository) ListByJob(ctx context.Context, ownerID, jobID string) ([]models.HistoryEntry, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var entries []models.HistoryEntry
	err := r.db.WithContext(ctx).
		Where(&models.HistoryEntry{OwnerID: ownerID, JobID: jobID}).
		Find(&entries).Error
	return entries, err
}
