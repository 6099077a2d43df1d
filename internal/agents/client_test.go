package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/types"
)

func TestHTTPCallerCall(t *testing.T) {
	var received types.AgentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, InvokePath, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		resp := types.AgentResponse{
			RequestID: received.RequestID,
			Success:   true,
			Result:    json.RawMessage(`{"artifact_locator":"artifacts/user-1/deck.pptx"}`),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	caller := NewHTTPCaller(map[types.AgentName]string{
		types.AgentSlides: server.URL,
	}, 5*time.Second)

	resp, err := caller.Call(context.Background(), types.AgentSlides, "create_slides",
		types.AssemblePayload{TemplateID: "tpl-1"}, "user-1")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, received.RequestID, resp.RequestID)
	assert.Equal(t, "create_slides", received.AgentType)
	assert.Equal(t, "user-1", received.OwnerID)

	var result types.AssembleResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "artifacts/user-1/deck.pptx", result.ArtifactLocator)

	var payload types.AssemblePayload
	require.NoError(t, json.Unmarshal(received.Payload, &payload))
	assert.Equal(t, "tpl-1", payload.TemplateID)
}

func TestHTTPCallerWorkerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.AgentResponse{
			Success: false,
			Error:   "model quota exceeded",
		})
	}))
	defer server.Close()

	caller := NewHTTPCaller(map[types.AgentName]string{
		types.AgentAgenda: server.URL,
	}, 5*time.Second)

	// A worker-reported failure is a response, not a transport error
	resp, err := caller.Call(context.Background(), types.AgentAgenda, "generate_agenda", nil, "user-1")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "model quota exceeded", resp.Error)
}

func TestHTTPCallerNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	caller := NewHTTPCaller(map[types.AgentName]string{
		types.AgentReview: server.URL,
	}, 5*time.Second)

	_, err := caller.Call(context.Background(), types.AgentReview, "review_slides", nil, "user-1")
	assert.Error(t, err)
}

func TestHTTPCallerUnknownAgent(t *testing.T) {
	caller := NewHTTPCaller(map[types.AgentName]string{}, time.Second)
	_, err := caller.Call(context.Background(), types.AgentAgenda, "generate_agenda", nil, "user-1")
	assert.Error(t, err)
}

func TestTimeoutFromEnv(t *testing.T) {
	t.Setenv("SLIDESMITH_AGENT_TIMEOUT", "45s")
	assert.Equal(t, 45*time.Second, TimeoutFromEnv())

	t.Setenv("SLIDESMITH_AGENT_TIMEOUT", "not-a-duration")
	assert.Equal(t, DefaultTimeout, TimeoutFromEnv())

	t.Setenv("SLIDESMITH_AGENT_TIMEOUT", "")
	assert.Equal(t, DefaultTimeout, TimeoutFromEnv())
}
