package types

import "fmt"

// Bounds for the requested document size
const (
	// MinSlides is the smallest accepted max_slides value
	MinSlides = 1
	// MaxSlides is the largest accepted max_slides value
	MaxSlides = 50
	// DefaultMaxSlides is used when the request does not set max_slides
	DefaultMaxSlides = 10
)

// GenerateRequest represents a request to start a generation job. The fields
// are immutable once the job has been created.
type GenerateRequest struct {
	Prompt        string   `json:"prompt"`                // Free-form generation prompt
	ReferenceURLs []string `json:"reference_urls"`        // Sources for the information stage
	TemplateID    string   `json:"template_id,omitempty"` // Optional document template
	MaxSlides     int      `json:"max_slides"`            // Upper bound on generated sections

	// AutoApproval skips the manual agenda approval step. Nil means the
	// request leaves the choice to the user's stored default; an explicit
	// false always waits for approval.
	AutoApproval *bool `json:"auto_approval,omitempty"`

	IncludeImages bool `json:"include_images"` // Content-inclusion preference
	IncludeTables bool `json:"include_tables"` // Content-inclusion preference
}

// Validate ensures the generate request is well formed
func (r *GenerateRequest) Validate() error {
	if r == nil || r.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	if r.MaxSlides != 0 && (r.MaxSlides < MinSlides || r.MaxSlides > MaxSlides) {
		return fmt.Errorf("max_slides must be between %d and %d", MinSlides, MaxSlides)
	}
	return nil
}

// ApplyDefaults fills zero-valued optional fields
func (r *GenerateRequest) ApplyDefaults() {
	if r.MaxSlides == 0 {
		r.MaxSlides = DefaultMaxSlides
	}
}

// ApprovalRequest carries an approve/reject decision for a job waiting at the
// agenda approval stage.
type ApprovalRequest struct {
	JobID    string  `json:"job_id"`           // Job the decision applies to
	Approved bool    `json:"approved"`         // Decision
	Agenda   *Agenda `json:"agenda,omitempty"` // Optional edited agenda, installed on approval
}

// Validate ensures the approval request is well formed
func (r *ApprovalRequest) Validate() error {
	if r == nil || r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	return nil
}

// UpdateSettingsRequest carries a user settings update
type UpdateSettingsRequest struct {
	AutoApproval        *bool `json:"auto_approval,omitempty"`
	NotificationEnabled *bool `json:"notification_enabled,omitempty"`
}
