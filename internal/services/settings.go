package services

import (
	"context"

	"github.com/slidesmith/slidesmith/internal/db/models"
	"github.com/slidesmith/slidesmith/internal/db/repos"
	"github.com/slidesmith/slidesmith/internal/types"
)

// Settings manages per-user defaults
type Settings struct {
	repo *repos.SettingsRepository
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(repo *repos.SettingsRepository) *Settings {
	return &Settings{repo: repo}
}

// Get returns the user's settings, falling back to defaults
func (s *Settings) Get(ctx context.Context, ownerID string) (*models.UserSettings, error) {
	return s.repo.Get(ctx, ownerID)
}

// Update applies a partial settings update and returns the stored result
func (s *Settings) Update(ctx context.Context, ownerID string, req *types.UpdateSettingsRequest) (*models.UserSettings, error) {
	settings, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if req.AutoApproval != nil {
		settings.AutoApproval = *req.AutoApproval
	}
	if req.NotificationEnabled != nil {
		settings.NotificationEnabled = *req.NotificationEnabled
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
