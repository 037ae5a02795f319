package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/asengupta/mentor/internal/llm"
)

// Generator produces practice questions for a topic. The LLM path and
// the template fallback both satisfy it.
type Generator interface {
	Generate(ctx context.Context, input Input) ([]Question, error)
}

// LLMGenerator implements Generator using the LLM provider, falling
// back to templates when generation fails.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGenerator. A nil provider yields a generator that
// always produces template questions.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	Questions []struct {
		QuestionText string   `json:"question_text"`
		AnswerText   string   `json:"answer_text"`
		QuestionType string   `json:"question_type"`
		Difficulty   string   `json:"difficulty"`
		Explanation  string   `json:"explanation"`
		Options      []string `json:"options"`
		Tags         []string `json:"tags"`
	} `json:"questions"`
}

// Generate produces input.Count questions. Generation failures of any
// kind degrade to the template fallback rather than erroring; only an
// invalid input is rejected.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) ([]Question, error) {
	if input.Count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", input.Count)
	}
	if input.TopicName == "" {
		return nil, fmt.Errorf("topic name must not be empty")
	}
	if input.Difficulty == "" {
		input.Difficulty = "medium"
	}

	if g.provider == nil {
		return Fallback(input), nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)}},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return Fallback(input), nil
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Fallback(input), nil
	}

	questions := make([]Question, 0, len(raw.Questions))
	for _, r := range raw.Questions {
		q := Question{
			Prompt:      strings.TrimSpace(r.QuestionText),
			Answer:      strings.TrimSpace(r.AnswerText),
			Type:        QuestionType(r.QuestionType),
			Difficulty:  r.Difficulty,
			Explanation: r.Explanation,
			Options:     r.Options,
			Tags:        r.Tags,
		}
		if err := validate(q); err != nil {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return Fallback(input), nil
	}
	if len(questions) > input.Count {
		questions = questions[:input.Count]
	}
	return questions, nil
}

// validate rejects structurally broken questions from the model.
func validate(q Question) error {
	if q.Prompt == "" || q.Answer == "" {
		return fmt.Errorf("empty prompt or answer")
	}
	switch q.Type {
	case TypeFlashcard, TypeMultipleChoice, TypeOpenEnded, TypeElaboration:
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.Type == TypeMultipleChoice {
		if len(q.Options) != 4 {
			return fmt.Errorf("multiple choice needs 4 options, got %d", len(q.Options))
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("answer not among options")
		}
	}
	switch q.Difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	return nil
}

// Fallback produces deterministic template questions. Total: always
// returns exactly input.Count questions.
func Fallback(input Input) []Question {
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	templates := []struct {
		prompt string
		qtype  QuestionType
	}{
		{"Explain the core idea of %s in your own words.", TypeOpenEnded},
		{"What problem does %s solve, and why does it matter?", TypeOpenEnded},
		{"Give a concrete example of %s in practice.", TypeElaboration},
		{"How does %s connect to something you already know?", TypeElaboration},
		{"What is a common mistake when working with %s?", TypeOpenEnded},
	}

	questions := make([]Question, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		tmpl := templates[i%len(templates)]
		prompt := fmt.Sprintf(tmpl.prompt, input.TopicName)
		if i >= len(templates) {
			prompt = fmt.Sprintf("%s (variation %d)", prompt, i/len(templates)+1)
		}
		questions = append(questions, Question{
			Prompt:      prompt,
			Answer:      "Write your answer, then compare it with the topic notes.",
			Type:        tmpl.qtype,
			Difficulty:  difficulty,
			Explanation: "Template question generated offline. Refine it to fit your notes.",
			Tags:        []string{strings.ToLower(input.TopicName)},
		})
	}
	return questions
}
