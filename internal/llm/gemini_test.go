package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchemaConversion(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string", "description": "問題文"},
						"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"level":    map[string]any{"type": "string", "enum": []any{"n1", "n2"}},
					},
					"required":             []string{"question", "options"},
					"additionalProperties": false,
				},
			},
		},
		"required": []any{"questions"},
	}

	s := geminiSchema(def)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"questions"}, s.Required)

	items := s.Properties["questions"].Items
	require.NotNil(t, items)
	assert.Equal(t, genai.TypeObject, items.Type)
	assert.Equal(t, []string{"question", "options"}, items.Required)
	assert.Equal(t, "問題文", items.Properties["question"].Description)
	assert.Equal(t, genai.TypeArray, items.Properties["options"].Type)
	assert.Equal(t, genai.TypeString, items.Properties["options"].Items.Type)
	assert.Equal(t, []string{"n1", "n2"}, items.Properties["level"].Enum)
}

func TestGeminiConfig(t *testing.T) {
	cfg := geminiConfig(Request{System: "sys", Temperature: 0.9, MaxTokens: 100, Schema: pairSchema})
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.9, *cfg.Temperature, 1e-6)
	assert.Equal(t, int32(100), cfg.MaxOutputTokens)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)

	bare := geminiConfig(Request{})
	assert.Nil(t, bare.Temperature)
	assert.Nil(t, bare.ResponseSchema)
}
