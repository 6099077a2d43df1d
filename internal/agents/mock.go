package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/slidesmith/slidesmith/internal/types"
)

// MockCaller is an in-memory Caller for tests. Each agent can be programmed
// with a result or an error; calls are recorded in order.
type MockCaller struct {
	mu sync.Mutex

	// Results maps agent name to the result payload returned on success
	Results map[types.AgentName]interface{}
	// Failures maps agent name to the error string returned with success=false
	Failures map[types.AgentName]string
	// Errors maps agent name to a transport-level error
	Errors map[types.AgentName]error

	// Calls records the agents invoked, in order
	Calls []types.AgentName
}

var _ Caller = (*MockCaller)(nil)

// NewMockCaller creates an empty mock caller
func NewMockCaller() *MockCaller {
	return &MockCaller{
		Results:  make(map[types.AgentName]interface{}),
		Failures: make(map[types.AgentName]string),
		Errors:   make(map[types.AgentName]error),
	}
}

// Call implements Caller
func (m *MockCaller) Call(_ context.Context, agent types.AgentName, _ string, _ interface{}, _ string) (*types.AgentResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, agent)
	m.mu.Unlock()

	if err, ok := m.Errors[agent]; ok {
		return nil, err
	}
	if msg, ok := m.Failures[agent]; ok {
		return &types.AgentResponse{Success: false, Error: msg}, nil
	}
	result, ok := m.Results[agent]
	if !ok {
		return nil, fmt.Errorf("mock caller: no behavior for agent %s", agent)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &types.AgentResponse{Success: true, Result: raw}, nil
}

// CalledAgents returns a copy of the recorded call order
func (m *MockCaller) CalledAgents() []types.AgentName {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.AgentName, len(m.Calls))
	copy(out, m.Calls)
	return out
}
