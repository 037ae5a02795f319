package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/llm"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning and LLM usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("sessions")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		profile, err := s.Profiles().Load(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Learner")
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("Answered:         %d\n", profile.TotalAnswered)
		fmt.Printf("Overall accuracy: %.0f%%\n", profile.Accuracy()*100)
		fmt.Printf("Recent accuracy:  %.0f%%\n", profile.RecentAccuracy()*100)
		fmt.Printf("Streak:           %d (best %d)\n", profile.Streak, profile.BestStreak)
		fmt.Printf("Suggested level:  %s\n", profile.SuggestedDifficulty())

		sessions, err := s.QuizSessions().ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		if len(sessions) > 0 {
			fmt.Println("\nRecent quiz sessions")
			fmt.Printf("%-19s  %-14s  %-8s  %s\n", "Started", "Mode", "Answered", "Correct")
			fmt.Println(strings.Repeat("─", 60))
			for _, sess := range sessions {
				fmt.Printf("%-19s  %-14s  %-8d  %d\n",
					sess.StartedAt.Local().Format("2006-01-02 15:04:05"),
					sess.Mode, sess.Total, sess.Correct)
			}
		}

		usages, err := s.LLMUsageByPurpose(ctx)
		if err != nil {
			return err
		}
		if len(usages) > 0 {
			fmt.Println("\nLLM usage")
			fmt.Printf("%-14s  %-28s  %-8s  %-8s  %-9s  %-9s  %s\n",
				"Purpose", "Model", "Requests", "Failures", "In", "Out", "Cost")
			fmt.Println(strings.Repeat("─", 95))
			total := 0.0
			for _, u := range usages {
				fmt.Printf("%-14s  %-28s  %-8d  %-8d  %-9d  %-9d  %s\n",
					u.Purpose, truncate(u.Model, 28), u.Requests, u.Failures,
					u.InputTokens, u.OutputTokens,
					formatCost(u.Model, u.InputTokens, u.OutputTokens, &total))
			}
			if total > 0 {
				fmt.Printf("\nEstimated total cost: $%.4f\n", total)
			}
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// formatCost prices a usage row, accumulating into total. Models absent
// from the pricing table show a dash.
func formatCost(model string, in, out int, total *float64) string {
	cost := llm.LookupCost(model)
	if cost == nil {
		return "–"
	}
	c := cost.Cost(in, out)
	*total += c
	return fmt.Sprintf("$%.4f", c)
}

func init() {
	statsCmd.Flags().Int("sessions", 10, "Number of recent quiz sessions to show")
}
