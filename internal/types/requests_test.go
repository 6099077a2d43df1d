package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestGenerateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     *GenerateRequest
		wantErr bool
	}{
		{
			name: "valid minimal request",
			req:  &GenerateRequest{Prompt: "intro to observability"},
		},
		{
			name: "valid with all fields",
			req: &GenerateRequest{
				Prompt:        "q3 results",
				ReferenceURLs: []string{"https://example.com"},
				TemplateID:    "tpl-1",
				MaxSlides:     20,
				AutoApproval:  boolPtr(true),
			},
		},
		{
			name:    "missing prompt",
			req:     &GenerateRequest{MaxSlides: 5},
			wantErr: true,
		},
		{
			name:    "max slides too small",
			req:     &GenerateRequest{Prompt: "p", MaxSlides: -1},
			wantErr: true,
		},
		{
			name:    "max slides too large",
			req:     &GenerateRequest{Prompt: "p", MaxSlides: 51},
			wantErr: true,
		},
		{
			name: "max slides at upper bound",
			req:  &GenerateRequest{Prompt: "p", MaxSlides: 50},
		},
		{
			name:    "nil request",
			req:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateRequestApplyDefaults(t *testing.T) {
	req := &GenerateRequest{Prompt: "p"}
	req.ApplyDefaults()
	assert.Equal(t, DefaultMaxSlides, req.MaxSlides)

	req = &GenerateRequest{Prompt: "p", MaxSlides: 7}
	req.ApplyDefaults()
	assert.Equal(t, 7, req.MaxSlides, "explicit max_slides must be kept")
}

func TestApprovalRequestValidate(t *testing.T) {
	assert.Error(t, (&ApprovalRequest{}).Validate(), "job_id is required")
	assert.NoError(t, (&ApprovalRequest{JobID: "j1", Approved: true}).Validate())
	assert.NoError(t, (&ApprovalRequest{JobID: "j1"}).Validate(), "rejection needs no agenda")
}
