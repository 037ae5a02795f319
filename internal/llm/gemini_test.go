package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt":     map[string]any{"type": "string"},
			"difficulty": map[string]any{"type": "integer"},
			"confidence": map[string]any{"type": "string", "enum": []any{"low", "medium", "high"}},
			"misconceptions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"prompt", "difficulty"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["prompt"].Type != "STRING" {
		t.Fatalf("expected STRING for prompt, got %s", schema.Properties["prompt"].Type)
	}
	if schema.Properties["difficulty"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for difficulty, got %s", schema.Properties["difficulty"].Type)
	}
	if len(schema.Properties["confidence"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["confidence"].Enum))
	}
	if schema.Properties["misconceptions"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for misconceptions, got %s", schema.Properties["misconceptions"].Type)
	}
	if schema.Properties["misconceptions"].Items.Type != "STRING" {
		t.Fatalf("expected STRING for misconceptions items, got %s", schema.Properties["misconceptions"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}
