package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert educator creating quiz questions grounded in retrieval practice.

Rules:
- Each question must be answerable from general knowledge of the topic, self-contained, and unambiguous.
- Promote retrieval practice: the learner must produce the answer, not merely recognize it.
- Encourage elaboration: explanations should connect the answer to broader concepts.
- Vary question types across the set; keep each question at the requested difficulty.
- For multiple choice, provide exactly 4 options with exactly one correct; distractors should reflect plausible confusions, not random picks.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message from the input and
// config limits.
func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.TopicName)
	if input.TopicDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", input.TopicDescription)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", input.Count)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(input.PriorPrompts, cfg.MaxPriorPrompts))

	return b.String()
}

// buildDedup formats prior prompts for the message, keeping only the
// most recent max entries.
func buildDedup(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}
	var b strings.Builder
	for _, p := range prompts {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return strings.TrimRight(b.String(), "\n")
}
