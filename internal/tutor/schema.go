package tutor

import "github.com/arlab/arlab/internal/llm"

// ExplanationSchema is the structured output for one missed question.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why the correct answer is right and where the learner's answer went wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentences a secondary-school student can follow",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One short memory aid, under 15 words",
			},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}
