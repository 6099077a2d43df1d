package types

import "encoding/json"

// AgentName identifies a worker by its logical name
type AgentName string

// Worker logical names
const (
	// AgentAgenda is the agenda generation worker
	AgentAgenda AgentName = "agenda"
	// AgentInformation is the information collection worker
	AgentInformation AgentName = "information"
	// AgentSlides is the document assembly worker
	AgentSlides AgentName = "slides"
	// AgentReview is the review worker
	AgentReview AgentName = "review"
)

// AgentRequest is the envelope sent to a worker. Payload is one of the typed
// payload structs below, serialized at the call boundary.
type AgentRequest struct {
	RequestID string          `json:"request_id"` // Unique id for this call
	AgentType string          `json:"agent_type"` // Operation the worker should perform
	Payload   json.RawMessage `json:"payload"`    // Typed payload, one variant per stage
	OwnerID   string          `json:"owner_id"`   // Caller the work is performed for
}

// AgentResponse is the envelope returned by a worker
type AgentResponse struct {
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// CollectPayload is the request payload for the information collection worker
type CollectPayload struct {
	Agenda        Agenda   `json:"agenda"`
	ReferenceURLs []string `json:"reference_urls"`
}

// Finding is a single piece of collected information tied to an agenda section
type Finding struct {
	PageNumber int    `json:"page_number"` // Agenda section the finding belongs to
	Source     string `json:"source"`      // Where the information came from
	Content    string `json:"content"`     // The collected material
}

// CollectResult is the result payload of the information collection worker
type CollectResult struct {
	Findings []Finding `json:"findings"`
}

// AssemblePayload is the request payload for the document assembly worker
type AssemblePayload struct {
	Agenda        Agenda    `json:"agenda"`
	Findings      []Finding `json:"findings"`
	TemplateID    string    `json:"template_id,omitempty"`
	IncludeImages bool      `json:"include_images"`
	IncludeTables bool      `json:"include_tables"`
}

// AssembleResult is the result payload of the document assembly worker
type AssembleResult struct {
	// Locator of the assembled artifact in the artifact store
	ArtifactLocator string `json:"artifact_locator"`
}

// ReviewPayload is the request payload for the review worker
type ReviewPayload struct {
	ArtifactLocator string `json:"artifact_locator"`
	Agenda          Agenda `json:"agenda"`
}

// ReviewResult is the result payload of the review worker
type ReviewResult struct {
	Score    int      `json:"score"`              // Quality score 0-100
	Comments []string `json:"comments,omitempty"` // Reviewer remarks
}
