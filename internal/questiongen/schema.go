package questiongen

import "github.com/asengupta/mentor/internal/llm"

// QuestionSetSchema defines the JSON schema for generated question sets.
var QuestionSetSchema = &llm.Schema{
	Name:        "question-set",
	Description: "A batch of practice questions for one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the learner",
						},
						"answer_text": map[string]any{
							"type":        "string",
							"description": "The correct answer",
						},
						"question_type": map[string]any{
							"type": "string",
							"enum": []any{"flashcard", "multiple_choice", "open_ended", "elaboration"},
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the answer is correct and how it connects to broader concepts",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for multiple_choice. Empty otherwise.",
						},
						"tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{
						"question_text", "answer_text", "question_type",
						"difficulty", "explanation", "options", "tags",
					},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
