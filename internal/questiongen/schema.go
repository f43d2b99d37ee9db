package questiongen

import "github.com/abhisek/kotoba/internal/llm"

// BatchSchema is the structured output requested from the model. The
// questions are wrapped in an object because some providers only accept
// object-typed roots.
var BatchSchema = &llm.Schema{
	Name:        "jlpt-questions",
	Description: "A batch of JLPT multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionDefinition,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

var questionDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": "問題文。テストする部分は（　　）で示す。",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "選択肢。ちょうど4つ、重複なし。",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "正解。optionsのいずれかと完全に一致する文字列。",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "解説。正解の理由と他の選択肢が不正解である理由。",
		},
	},
	"required":             []any{"question", "options", "correct_answer", "explanation"},
	"additionalProperties": false,
}
