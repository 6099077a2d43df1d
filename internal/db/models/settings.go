package models

import (
	"time"

	"gorm.io/gorm"
)

// UserSettings stores per-user defaults applied when a request leaves the
// corresponding field unset.
type UserSettings struct {
	OwnerID             string    `json:"owner_id" gorm:"primaryKey"`
	AutoApproval        bool      `json:"auto_approval" gorm:"not null;default:false"`
	NotificationEnabled bool      `json:"notification_enabled" gorm:"not null;default:true"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BeforeCreate is a GORM hook that runs before creating new settings
func (s *UserSettings) BeforeCreate(_ *gorm.DB) error {
	return ValidateOwnerID(s.OwnerID)
}
