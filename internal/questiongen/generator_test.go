package questiongen

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/asengupta/mentor/internal/llm"
)

func questionSetJSON(t *testing.T, questions ...map[string]any) json.RawMessage {
	t.Helper()
	body, err := json.Marshal(map[string]any{"questions": questions})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func validQuestion(prompt string) map[string]any {
	return map[string]any{
		"question_text": prompt,
		"answer_text":   "the runtime scheduler",
		"question_type": "open_ended",
		"difficulty":    "medium",
		"explanation":   "goroutines are multiplexed onto OS threads by the scheduler",
		"options":       []string{},
		"tags":          []string{"concurrency"},
	}
}

func TestGenerateFromProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: questionSetJSON(t,
			validQuestion("What schedules goroutines onto threads?"),
			validQuestion("Why are goroutine stacks small at start?"),
		),
	})
	g := New(mock, DefaultConfig())

	got, err := g.Generate(context.Background(), Input{
		TopicName:    "Go concurrency",
		Count:        2,
		Difficulty:   "medium",
		PriorPrompts: []string{"What is a channel?"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("questions = %d, want 2", len(got))
	}
	if got[0].Type != TypeOpenEnded || got[0].Difficulty != "medium" {
		t.Errorf("question = %+v", got[0])
	}

	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != "question-set" {
		t.Errorf("schema = %+v", req.Schema)
	}
	if !strings.Contains(req.Messages[0].Content, "What is a channel?") {
		t.Error("prior prompts missing from user message")
	}
}

func TestGenerateDropsInvalidQuestions(t *testing.T) {
	bad := validQuestion("Pick the scheduler's unit of work")
	bad["question_type"] = "multiple_choice"
	bad["options"] = []string{"goroutine", "thread"} // needs 4

	mock := llm.NewMockProvider(llm.MockResponse{
		Content: questionSetJSON(t, bad, validQuestion("What does go func() start?")),
	})
	g := New(mock, DefaultConfig())

	got, err := g.Generate(context.Background(), Input{TopicName: "Go concurrency", Count: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("questions = %d, want 1 (invalid one dropped)", len(got))
	}
}

func TestGenerateFallsBackOnFailure(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue: provider fails
	g := New(mock, DefaultConfig())

	got, err := g.Generate(context.Background(), Input{TopicName: "SQL joins", Count: 3, Difficulty: "easy"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("fallback questions = %d, want 3", len(got))
	}
	for _, q := range got {
		if q.Prompt == "" || q.Difficulty != "easy" {
			t.Errorf("fallback question = %+v", q)
		}
	}
}

func TestGenerateWithoutProvider(t *testing.T) {
	g := New(nil, DefaultConfig())
	got, err := g.Generate(context.Background(), Input{TopicName: "HTTP", Count: 7})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 7 {
		t.Fatalf("questions = %d, want 7", len(got))
	}
	// Variations keep prompts distinct past the template count.
	seen := make(map[string]bool)
	for _, q := range got {
		if seen[q.Prompt] {
			t.Errorf("duplicate prompt %q", q.Prompt)
		}
		seen[q.Prompt] = true
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	g := New(nil, DefaultConfig())
	if _, err := g.Generate(context.Background(), Input{TopicName: "Go", Count: 0}); err == nil {
		t.Error("expected error for zero count")
	}
	if _, err := g.Generate(context.Background(), Input{Count: 3}); err == nil {
		t.Error("expected error for empty topic")
	}
}

func TestValidateMultipleChoice(t *testing.T) {
	q := Question{
		Prompt:     "Which clause filters grouped rows?",
		Answer:     "HAVING",
		Type:       TypeMultipleChoice,
		Difficulty: "medium",
		Options:    []string{"WHERE", "HAVING", "GROUP BY", "ORDER BY"},
	}
	if err := validate(q); err != nil {
		t.Errorf("valid question rejected: %v", err)
	}

	q.Answer = "LIMIT"
	if err := validate(q); err == nil {
		t.Error("answer outside options accepted")
	}
}
