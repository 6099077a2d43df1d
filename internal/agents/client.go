// Package agents provides the client used to call pipeline workers by logical name
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/slidesmith/slidesmith/config"
	"github.com/slidesmith/slidesmith/internal/constants"
	"github.com/slidesmith/slidesmith/internal/types"
)

// DefaultTimeout bounds a single worker call when the context has no deadline
const DefaultTimeout = 120 * time.Second

// InvokePath is the request path workers expose for invocations
const InvokePath = "/invoke"

// Caller performs a synchronous request/response call to a worker identified
// by its logical name. Implementations must bound every call.
type Caller interface {
	Call(ctx context.Context, agent types.AgentName, agentType string, payload interface{}, ownerID string) (*types.AgentResponse, error)
}

// HTTPCaller calls workers over HTTP
type HTTPCaller struct {
	endpoints map[types.AgentName]string
	timeout   time.Duration
}

var _ Caller = (*HTTPCaller)(nil)

// NewHTTPCaller creates a caller for the given logical name → base URL mapping
func NewHTTPCaller(endpoints map[types.AgentName]string, timeout time.Duration) *HTTPCaller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPCaller{endpoints: endpoints, timeout: timeout}
}

// EndpointsFromEnv builds the worker endpoint mapping from the environment
func EndpointsFromEnv() map[types.AgentName]string {
	return map[types.AgentName]string{
		types.AgentAgenda:      config.GetEnv(constants.EnvAgendaAgentURL, "http://localhost:8001"),
		types.AgentInformation: config.GetEnv(constants.EnvInformationAgentURL, "http://localhost:8002"),
		types.AgentSlides:      config.GetEnv(constants.EnvSlideAgentURL, "http://localhost:8003"),
		types.AgentReview:      config.GetEnv(constants.EnvReviewAgentURL, "http://localhost:8004"),
	}
}

// TimeoutFromEnv reads the per-call timeout from the environment
func TimeoutFromEnv() time.Duration {
	raw := config.GetEnv(constants.EnvAgentTimeout, "")
	if raw == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Call sends a typed payload to the named worker and returns its response
// envelope. Transport failures and timeouts are returned as errors; a worker
// that answered with success=false is returned as a response, not an error.
func (c *HTTPCaller) Call(ctx context.Context, agent types.AgentName, agentType string, payload interface{}, ownerID string) (*types.AgentResponse, error) {
	base, ok := c.endpoints[agent]
	if !ok {
		return nil, fmt.Errorf("unknown agent: %s", agent)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for agent %s: %w", agent, err)
	}

	req := types.AgentRequest{
		RequestID: uuid.NewString(),
		AgentType: agentType,
		Payload:   body,
		OwnerID:   ownerID,
	}

	a := fiber.Post(base + InvokePath)
	if deadline, ok := ctx.Deadline(); ok {
		a.Timeout(time.Until(deadline))
	} else {
		a.Timeout(c.timeout)
	}
	a.Set("Content-Type", "application/json")
	a.Set("Accept", "application/json")
	a.JSON(req)

	statusCode, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("agent %s call failed: %w", agent, errs[0])
	}
	if statusCode != fiber.StatusOK {
		return nil, fmt.Errorf("agent %s returned status %d", agent, statusCode)
	}

	var resp types.AgentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode agent %s response: %w", agent, err)
	}
	return &resp, nil
}
