// Package questiongen produces practice questions for a topic via the
// LLM, with a deterministic template fallback so a question set can
// always be produced offline.
package questiongen

// QuestionType is how the learner answers.
type QuestionType string

const (
	TypeFlashcard      QuestionType = "flashcard"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeOpenEnded      QuestionType = "open_ended"
	TypeElaboration    QuestionType = "elaboration"
)

// Question is one generated practice question before persistence.
type Question struct {
	Prompt      string
	Answer      string
	Type        QuestionType
	Difficulty  string
	Explanation string
	Options     []string
	Tags        []string
}

// Input is the generation context for one request.
type Input struct {
	TopicName        string
	TopicDescription string

	// Count is how many questions to produce.
	Count int

	// Difficulty is the requested band: easy, medium or hard. Callers
	// usually take it from the learner profile's suggestion.
	Difficulty string

	// PriorPrompts lists questions already in the bank, so the model
	// does not repeat them.
	PriorPrompts []string
}

// Config bounds a generator.
type Config struct {
	MaxTokens       int
	Temperature     float64
	MaxPriorPrompts int
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxTokens:       4096,
		Temperature:     0.7,
		MaxPriorPrompts: 30,
	}
}
