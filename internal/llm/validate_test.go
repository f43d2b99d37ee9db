package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pairSchema = &Schema{
	Name: "test-pair",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required":             []string{"word", "count"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"word":"猫","count":2}`, false},
		{"missing field", `{"word":"猫"}`, true},
		{"wrong type", `{"word":"猫","count":"two"}`, true},
		{"extra field", `{"word":"猫","count":2,"x":1}`, true},
		{"not json", `{"word":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(pairSchema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var invalid *ErrInvalidResponse
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.raw, string(invalid.Content))
		})
	}
}

func TestValidateNilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
}

func TestMockValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"word":"犬"}`)},
		MockResponse{Content: json.RawMessage(`{"word":"犬","count":1}`)},
	)
	_, err := mock.Generate(context.Background(), Request{Schema: pairSchema})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)

	resp, err := mock.Generate(context.Background(), Request{Schema: pairSchema})
	require.NoError(t, err)

	var out struct {
		Word  string `json:"word"`
		Count int    `json:"count"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "犬", out.Word)
}

func TestFinishRejectsTruncated(t *testing.T) {
	_, err := finish(Request{}, &Response{StopReason: StopMaxTokens, Content: json.RawMessage(`{"a"`)})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)
}
