package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryEntry is the durable record appended when a job completes. Entries
// are append-only: the engine never mutates or deletes them.
type HistoryEntry struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	OwnerID         string    `json:"owner_id" gorm:"not null;index"`
	JobID           string    `json:"job_id" gorm:"not null;index"`
	Title           string    `json:"title" gorm:"not null"`
	SlideCount      int       `json:"slide_count" gorm:"not null"`
	ArtifactLocator string    `json:"artifact_locator" gorm:"not null;type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

// Validate ensures that the history entry data is valid
func (h *HistoryEntry) Validate() error {
	if err := ValidateOwnerID(h.OwnerID); err != nil {
		return err
	}
	if h.JobID == "" {
		return fmt.Errorf("history entry job id cannot be empty")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new history entry
func (h *HistoryEntry) BeforeCreate(_ *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return h.Validate()
}
