package types

// StartResponse is returned when a generation job has been accepted
type StartResponse struct {
	JobID string `json:"job_id"` // ID of the created job
	Stage string `json:"stage"`  // Stage the job was in when the call returned
}

// DecisionResponse is returned after an approval decision has been applied
type DecisionResponse struct {
	JobID string `json:"job_id"` // ID of the decided job
	Stage string `json:"stage"`  // Stage the decision moved the job to
}

// PaginationResponse represents pagination information for list endpoints
type PaginationResponse struct {
	Total  int `json:"total"`  // Number of items in this page
	Page   int `json:"page"`   // Current page number (1-based)
	Limit  int `json:"limit"`  // Maximum number of items per page
	Offset int `json:"offset"` // Number of items skipped
}
