package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/questiongen"
	"github.com/asengupta/mentor/internal/spacedrep"
	"github.com/asengupta/mentor/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate practice questions for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		topic, err := topicByName(cmd, s, args[0])
		if err != nil {
			return err
		}

		// Without an explicit difficulty, follow the learner's recent
		// accuracy instead of a fixed default.
		if difficulty == "" {
			profile, err := s.Profiles().Load(ctx)
			if err != nil {
				return err
			}
			difficulty = profile.SuggestedDifficulty()
		}

		existing, err := s.Questions().ListByTopic(ctx, topic.ID)
		if err != nil {
			return err
		}
		prior := make([]string, 0, len(existing))
		for _, q := range existing {
			prior = append(prior, q.Prompt)
		}

		provider := newProvider(ctx, s)
		gen := questiongen.New(provider, questiongen.DefaultConfig())
		questions, err := gen.Generate(ctx, questiongen.Input{
			TopicName:        topic.Name,
			TopicDescription: topic.Description,
			Count:            count,
			Difficulty:       difficulty,
			PriorPrompts:     prior,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		for _, q := range questions {
			rec := &store.Question{
				ID:          uuid.NewString(),
				TopicID:     topic.ID,
				Prompt:      q.Prompt,
				Answer:      q.Answer,
				Explanation: q.Explanation,
				Difficulty:  q.Difficulty,
				CreatedAt:   now,
			}
			item := spacedrep.NewItem(rec.ID, topic.ID, now)
			if err := s.Questions().Create(ctx, rec, item); err != nil {
				return err
			}
		}

		fmt.Printf("Generated %d %s questions for %q:\n\n", len(questions), difficulty, topic.Name)
		for i, q := range questions {
			fmt.Printf("%2d. %s\n", i+1, q.Prompt)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("count", 5, "Number of questions to generate")
	generateCmd.Flags().String("difficulty", "", "Difficulty (easy, medium, hard); defaults to your recent accuracy")
}
