package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/artifacts"
	"github.com/slidesmith/slidesmith/internal/db/models"
	"github.com/slidesmith/slidesmith/internal/db/repos"
	"github.com/slidesmith/slidesmith/internal/logger"
)

// Template service errors
var (
	// ErrTemplateNotFound marks a missing template id / owner pair
	ErrTemplateNotFound = errors.New("template not found")
	// ErrUnsupportedTemplate marks an upload that is not a .pptx file
	ErrUnsupportedTemplate = errors.New("only .pptx files are allowed")
)

// templateCategory is the artifact store category for uploaded templates
const templateCategory = "templates"

// Template manages uploaded slide templates and their stored files
type Template struct {
	repo  *repos.TemplateRepository
	store artifacts.Store
}

// NewTemplateService creates a new template service instance
func NewTemplateService(repo *repos.TemplateRepository, store artifacts.Store) *Template {
	return &Template{repo: repo, store: store}
}

// Upload stores the template file and its record
func (s *Template) Upload(ctx context.Context, ownerID, filename, name, description string, data []byte) (*models.SlideTemplate, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pptx") {
		return nil, ErrUnsupportedTemplate
	}
	if name == "" {
		name = filename
	}

	locator, err := s.store.Upload(ctx, data, filename, ownerID, templateCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to store template file: %w", err)
	}

	template := &models.SlideTemplate{
		OwnerID:         ownerID,
		Name:            name,
		Description:     description,
		ArtifactLocator: locator,
	}
	if err := s.repo.Create(ctx, template); err != nil {
		// The record is the source of truth; drop the orphaned file.
		if delErr := s.store.Delete(ctx, locator); delErr != nil {
			logger.Warnf("Failed to remove orphaned template file %s: %v", locator, delErr)
		}
		return nil, err
	}
	return template, nil
}

// List returns the owner's templates, newest first
func (s *Template) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.SlideTemplate, error) {
	return s.repo.List(ctx, ownerID, opts)
}

// Delete removes a template's file and record
func (s *Template) Delete(ctx context.Context, ownerID, id string) error {
	template, err := s.repo.GetByID(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Join(ErrTemplateNotFound, err)
	}
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, template.ArtifactLocator); err != nil && !errors.Is(err, artifacts.ErrNotFound) {
		return fmt.Errorf("failed to delete template file: %w", err)
	}
	return s.repo.Delete(ctx, ownerID, id)
}
