// Package client provides the API client for interacting with the slidesmith API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/slidesmith/slidesmith/internal/api/v1/routes"
	"github.com/slidesmith/slidesmith/internal/db/models"
	"github.com/slidesmith/slidesmith/internal/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", routes.DefaultPort)

// Client is the interface for the API client
type Client interface {
	// Health check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Generation endpoints
	StartJob(ctx context.Context, req *types.GenerateRequest) (*types.StartResponse, error)
	DecideApproval(ctx context.Context, req *types.ApprovalRequest) (*types.DecisionResponse, error)
	CancelJob(ctx context.Context, jobID string) error
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	ListJobs(ctx context.Context, page int) ([]models.Job, error)
	ListHistory(ctx context.Context, page int) ([]models.HistoryEntry, error)

	// Settings endpoints
	GetSettings(ctx context.Context) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, req *types.UpdateSettingsRequest) (*models.UserSettings, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// AuthToken is the bearer token sent with every request
	AuthToken string

	// Timeout is the request timeout
	Timeout time.Duration
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	authToken string
	timeout   time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL:   opts.BaseURL,
		authToken: opts.AuthToken,
		timeout:   opts.Timeout,
	}, nil
}

// envelope mirrors the API response envelope with a deferred data payload
type envelope struct {
	Slug  types.Slug      `json:"slug"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// createAgent creates a new fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPut:
		agent = fiber.Put(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.authToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.authToken)
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and decodes the envelope data into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode == fiber.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("error decoding response (status %d): %w", statusCode, err)
	}

	if statusCode >= 400 || env.Slug != types.SuccessSlug {
		if env.Error != "" {
			return fmt.Errorf("API error (status %d): %s", statusCode, env.Error)
		}
		return fmt.Errorf("API error: status %d", statusCode)
	}

	if v == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, v)
}

// HealthCheck checks API availability
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode != fiber.StatusOK {
		return nil, fmt.Errorf("health check failed: status %d", statusCode)
	}

	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// StartJob starts a new generation job
func (c *APIClient) StartJob(ctx context.Context, req *types.GenerateRequest) (*types.StartResponse, error) {
	agent, err := c.createAgent(ctx, http.MethodPost, routes.APIv1Prefix+"/generate", req)
	if err != nil {
		return nil, err
	}
	var resp types.StartResponse
	if err := c.doRequest(agent, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DecideApproval approves or rejects an agenda
func (c *APIClient) DecideApproval(ctx context.Context, req *types.ApprovalRequest) (*types.DecisionResponse, error) {
	agent, err := c.createAgent(ctx, http.MethodPost, routes.APIv1Prefix+"/approve", req)
	if err != nil {
		return nil, err
	}
	var resp types.DecisionResponse
	if err := c.doRequest(agent, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelJob requests cancellation of a job
func (c *APIClient) CancelJob(ctx context.Context, jobID string) error {
	agent, err := c.createAgent(ctx, http.MethodPost, routes.APIv1Prefix+"/jobs/"+jobID+"/cancel", nil)
	if err != nil {
		return err
	}
	return c.doRequest(agent, nil)
}

// GetJob retrieves a job by id
func (c *APIClient) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, routes.APIv1Prefix+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	var job models.Job
	if err := c.doRequest(agent, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs lists the caller's jobs, newest first
func (c *APIClient) ListJobs(ctx context.Context, page int) ([]models.Job, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, fmt.Sprintf("%s/jobs?page=%d", routes.APIv1Prefix, page), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := c.doRequest(agent, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// ListHistory lists the caller's generation history, newest first
func (c *APIClient) ListHistory(ctx context.Context, page int) ([]models.HistoryEntry, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, fmt.Sprintf("%s/history?page=%d", routes.APIv1Prefix, page), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		History []models.HistoryEntry `json:"history"`
	}
	if err := c.doRequest(agent, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// GetSettings retrieves the caller's settings
func (c *APIClient) GetSettings(ctx context.Context) (*models.UserSettings, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, routes.APIv1Prefix+"/settings", nil)
	if err != nil {
		return nil, err
	}
	var settings models.UserSettings
	if err := c.doRequest(agent, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings applies a partial settings update
func (c *APIClient) UpdateSettings(ctx context.Context, req *types.UpdateSettingsRequest) (*models.UserSettings, error) {
	agent, err := c.createAgent(ctx, http.MethodPut, routes.APIv1Prefix+"/settings", req)
	if err != nil {
		return nil, err
	}
	var settings models.UserSettings
	if err := c.doRequest(agent, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
