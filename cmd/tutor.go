package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/dialogue"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor <topic> <concept>",
	Short: "Start a Socratic tutoring session on a concept",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeArg, _ := cmd.Flags().GetString("mode")
		budget, _ := cmd.Flags().GetInt("turns")

		mode, err := dialogue.ParseMode(modeArg)
		if err != nil {
			return err
		}

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
		graph, err := s.Concepts().LoadGraph(ctx, topic.ID)
		if err != nil {
			return err
		}
		concept := conceptNamed(graph, args[1])
		if concept == nil {
			return fmt.Errorf("concept %q not found in topic %q", args[1], topic.Name)
		}

		provider := newProvider(ctx, s)
		engine := dialogue.NewEngine(s, graph, provider)
		sess, reply, err := engine.Start(ctx, concept.ID, dialogue.Config{
			Mode:       mode,
			TurnBudget: budget,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Tutoring: %s (%s mode). Type /end to finish.\n\n", concept.Name, mode)
		fmt.Printf("Coach: %s\n", reply.Text)

		reader := bufio.NewReader(os.Stdin)
		for sess.State != dialogue.StateClosing {
			fmt.Print("\nYou: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "/end" {
				break
			}

			reply, err := engine.Turn(ctx, sess, text)
			if err != nil {
				return err
			}
			fmt.Printf("\nCoach: %s\n", reply.Text)
		}

		summary, err := engine.End(ctx, sess)
		if err != nil {
			return err
		}

		fmt.Println("\n── Session summary ──")
		fmt.Printf("Turns:      %d\n", summary.LearnerTurns)
		fmt.Printf("Depth:      %s\n", summary.DepthAchieved)
		if len(summary.Insights) > 0 {
			fmt.Printf("Worked on:  %s\n", strings.Join(summary.Insights, ", "))
		}
		if len(summary.AreasToReview) > 0 {
			fmt.Printf("Review:     %s\n", strings.Join(summary.AreasToReview, ", "))
		}
		return nil
	},
}

func init() {
	tutorCmd.Flags().String("mode", "exploration", "Session mode: exploration, depth_check, teaching, practice or reflection")
	tutorCmd.Flags().Int("turns", 0, "Turn budget before the session winds down (0 = default)")
}
