package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/db/models"
)

// TemplateRepository provides access to slide template records
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository instance
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create stores a new template record
func (r *TemplateRepository) Create(ctx context.Context, template *models.SlideTemplate) error {
	if err := models.ValidateOwnerID(template.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(template).Error
}

// GetByID retrieves a template by id, scoped to the owning user
func (r *TemplateRepository) GetByID(ctx context.Context, ownerID, id string) (*models.SlideTemplate, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var template models.SlideTemplate
	err := r.db.WithContext(ctx).
		Where(&models.SlideTemplate{ID: id, OwnerID: ownerID}).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

// List returns the owner's templates ordered newest first
func (r *TemplateRepository) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.SlideTemplate, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var templates []models.SlideTemplate
	query := r.db.WithContext(ctx).
		Where(&models.SlideTemplate{OwnerID: ownerID}).
		Order(models.JobCreatedAtField + " DESC")
	if opts != nil {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	err := query.Find(&templates).Error
	return templates, err
}

// Delete removes a template record
func (r *TemplateRepository) Delete(ctx context.Context, ownerID, id string) error {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).
		Where(&models.SlideTemplate{ID: id, OwnerID: ownerID}).
		Delete(&models.SlideTemplate{}).Error
}
