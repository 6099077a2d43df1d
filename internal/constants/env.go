// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvAPIPort is the environment variable containing the API listen port
	EnvAPIPort = "SLIDESMITH_API_PORT"

	// EnvTokenSecret is the environment variable containing the HMAC secret
	// used to sign and verify API access tokens
	EnvTokenSecret = "SLIDESMITH_TOKEN_SECRET"

	// EnvArtifactRoot is the environment variable containing the root
	// directory of the filesystem artifact store
	EnvArtifactRoot = "SLIDESMITH_ARTIFACT_ROOT"

	// EnvAgentTimeout is the environment variable containing the per-call
	// worker timeout (Go duration string)
	EnvAgentTimeout = "SLIDESMITH_AGENT_TIMEOUT"

	// EnvAgendaAgentURL is the environment variable containing the base URL
	// of the agenda generation worker
	EnvAgendaAgentURL = "SLIDESMITH_AGENDA_AGENT_URL"

	// EnvInformationAgentURL is the environment variable containing the base
	// URL of the information collection worker
	EnvInformationAgentURL = "SLIDESMITH_INFORMATION_AGENT_URL"

	// EnvSlideAgentURL is the environment variable containing the base URL of
	// the slide assembly worker
	EnvSlideAgentURL = "SLIDESMITH_SLIDE_AGENT_URL"

	// EnvReviewAgentURL is the environment variable containing the base URL
	// of the review worker
	EnvReviewAgentURL = "SLIDESMITH_REVIEW_AGENT_URL"
)
