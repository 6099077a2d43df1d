package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/types"
)

// Database field names for the job model
const (
	// JobCreatedAtField is the database field name for the job creation timestamp
	JobCreatedAtField = "created_at"
	// JobStageField is the database field name for the job stage
	JobStageField = "stage"
)

// AgendaDocument is a types.Agenda stored as a JSONB column
type AgendaDocument types.Agenda

// Value implements the driver.Valuer interface
func (a *AgendaDocument) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *AgendaDocument) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, strOK := value.(string); strOK {
			bytes = []byte(str)
		} else {
			return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
		}
	}

	return json.Unmarshal(bytes, a)
}

// Agenda converts the stored document back to its API type, nil when absent
func (a *AgendaDocument) Agenda() *types.Agenda {
	if a == nil {
		return nil
	}
	agenda := types.Agenda(*a)
	return &agenda
}

// Job represents one end-to-end generation pipeline run owned by a user.
// The generation request fields are immutable after creation; stage, progress,
// and the result fields are mutated exclusively by the pipeline engine.
type Job struct {
	ID      string `json:"id" gorm:"primaryKey"`
	OwnerID string `json:"owner_id" gorm:"not null;index"`

	// Original generation request
	Prompt        string     `json:"prompt" gorm:"not null;type:text"`
	ReferenceURLs StringList `json:"reference_urls" gorm:"type:jsonb"`
	TemplateID    string     `json:"template_id,omitempty"`
	MaxSlides     int        `json:"max_slides" gorm:"not null;default:10"`
	AutoApproval  bool       `json:"auto_approval" gorm:"not null;default:false"`
	IncludeImages bool       `json:"include_images" gorm:"not null;default:true"`
	IncludeTables bool       `json:"include_tables" gorm:"not null;default:true"`

	Stage           Stage           `json:"stage" gorm:"not null;index"`
	Progress        int             `json:"progress" gorm:"not null;default:0"`
	StepDescription string          `json:"step_description"`
	Agenda          *AgendaDocument `json:"agenda,omitempty" gorm:"type:jsonb"`
	ResultLocator   string          `json:"result_locator,omitempty" gorm:"type:text"`
	ErrorDetail     string          `json:"error_detail,omitempty" gorm:"type:text"`
	ReviewNotes     string          `json:"review_notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Request reconstructs the immutable generation request from the job record.
// The job carries the resolved auto-approval value, so the reconstructed
// request always sets the flag explicitly.
func (j *Job) Request() types.GenerateRequest {
	autoApproval := j.AutoApproval
	return types.GenerateRequest{
		Prompt:        j.Prompt,
		ReferenceURLs: j.ReferenceURLs,
		TemplateID:    j.TemplateID,
		MaxSlides:     j.MaxSlides,
		AutoApproval:  &autoApproval,
		IncludeImages: j.IncludeImages,
		IncludeTables: j.IncludeTables,
	}
}

// SetStage moves the job to the given stage, keeping progress and the step
// description in line with the stage checkpoint mapping.
func (j *Job) SetStage(stage Stage) {
	j.Stage = stage
	j.StepDescription = stage.Description()
	if p, ok := stageProgress[stage]; ok {
		j.Progress = p
	}
}

// Validate ensures that the job data is valid
func (j *Job) Validate() error {
	if err := ValidateOwnerID(j.OwnerID); err != nil {
		return err
	}
	if j.Prompt == "" {
		return fmt.Errorf("job prompt cannot be empty")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new job
func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Stage == "" {
		j.SetStage(StagePending)
	}
	return j.Validate()
}
