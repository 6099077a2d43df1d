package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlideTemplate is an uploaded document template a request can select by id
type SlideTemplate struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	OwnerID         string    `json:"owner_id" gorm:"not null;index"`
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description"`
	ArtifactLocator string    `json:"artifact_locator" gorm:"not null;type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

// Validate ensures that the template data is valid
func (t *SlideTemplate) Validate() error {
	if err := ValidateOwnerID(t.OwnerID); err != nil {
		return err
	}
	if t.Name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new template
func (t *SlideTemplate) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return t.Validate()
}
