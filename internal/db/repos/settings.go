package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/db/models"
)

// SettingsRepository provides access to per-user settings
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository instance
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the settings for a user. Returns defaults (and no error) when
// the user has never stored settings.
func (r *SettingsRepository) Get(ctx context.Context, ownerID string) (*models.UserSettings, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var settings models.UserSettings
	err := r.db.WithContext(ctx).
		Where(&models.UserSettings{OwnerID: ownerID}).
		First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserSettings{OwnerID: ownerID, NotificationEnabled: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Save creates or updates the settings for a user
func (r *SettingsRepository) Save(ctx context.Context, settings *models.UserSettings) error {
	if err := models.ValidateOwnerID(settings.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Save(settings).Error
}
