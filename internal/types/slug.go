package types

// Slug is a type for the slug field in the response
// It is mainly used for the client to understand the type of the response
type Slug string

const (
	// SuccessSlug marks a successful response
	SuccessSlug Slug = "success"
	// ErrorSlug marks a generic error response
	ErrorSlug Slug = "error"
	// InvalidInputSlug marks a validation error response
	InvalidInputSlug Slug = "invalid-input"
	// NotFoundSlug marks a missing-resource response
	NotFoundSlug Slug = "not-found"
	// UnauthorizedSlug marks a failed-authentication response
	UnauthorizedSlug Slug = "unauthorized"
	// ServerErrorSlug marks an internal error response
	ServerErrorSlug Slug = "server-error"
)

// SlugResponse is the response envelope for the API
type SlugResponse struct {
	Slug  Slug        `json:"slug"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// ErrInvalidInput returns a SlugResponse with the InvalidInputSlug and the error message
func ErrInvalidInput(msg string) SlugResponse {
	return SlugResponse{
		Slug:  InvalidInputSlug,
		Error: msg,
	}
}

// ErrNotFound returns a SlugResponse with the NotFoundSlug and the error message
func ErrNotFound(msg string) SlugResponse {
	return SlugResponse{
		Slug:  NotFoundSlug,
		Error: msg,
	}
}

// ErrUnauthorized returns a SlugResponse with the UnauthorizedSlug and the error message
func ErrUnauthorized(msg string) SlugResponse {
	return SlugResponse{
		Slug:  UnauthorizedSlug,
		Error: msg,
	}
}

// ErrServer returns a SlugResponse with the ServerErrorSlug and the error message
func ErrServer(msg string) SlugResponse {
	return SlugResponse{
		Slug:  ServerErrorSlug,
		Error: msg,
	}
}

// Success returns a SlugResponse with the SuccessSlug and the data
func Success(data interface{}) SlugResponse {
	return SlugResponse{
		Slug: SuccessSlug,
		Data: data,
	}
}
