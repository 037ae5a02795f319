package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/quiz"
	"github.com/asengupta/mentor/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <topic>",
	Short: "Run an interactive quiz session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeArg, _ := cmd.Flags().GetString("mode")
		limit, _ := cmd.Flags().GetInt("limit")

		mode, err := quiz.ParseMode(modeArg)
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

		orch := quiz.NewOrchestrator(s)
		sess, err := orch.Start(ctx, topic.ID, mode, limit)
		if err != nil {
			if errors.Is(err, quiz.ErrNoQuestions) {
				fmt.Printf("Nothing to review in %q right now. Generate questions with: mentor generate %s\n", topic.Name, topic.Name)
				return nil
			}
			return err
		}

		fmt.Printf("Quiz: %s (%s, %d questions)\n", topic.Name, mode, len(sess.Queue))
		fmt.Println("Press Enter to reveal each answer, then grade yourself.")

		reader := bufio.NewReader(os.Stdin)
		for i, item := range sess.Queue {
			q, err := s.Questions().Get(ctx, item.ID)
			if err != nil {
				return err
			}

			fmt.Printf("\n[%d/%d] %s\n", i+1, len(sess.Queue), q.Prompt)
			fmt.Print("(Enter to reveal) ")
			if _, err := reader.ReadString('\n'); err != nil {
				break
			}
			fmt.Printf("Answer: %s\n", q.Answer)
			if q.Explanation != "" {
				fmt.Printf("Why:    %s\n", q.Explanation)
			}

			correct := promptYesNo(reader, "Did you get it right? [y/n] ")
			confidence := promptConfidence(reader)
			interval, err := orch.RecordOutcome(ctx, sess, q.ID, correct, confidence)
			if err != nil {
				return err
			}
			fmt.Printf("Next review in %d day(s).\n", interval)
		}

		summary, err := orch.End(ctx, sess)
		if err != nil {
			return err
		}
		printQuizSummary(ctx, summary, s)
		return nil
	},
}

var quizDueCmd = &cobra.Command{
	Use:   "due <topic>",
	Short: "Show questions due for review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		items, err := s.Questions().ReviewItems(ctx, topic.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		due := 0
		fresh := 0
		for _, item := range items {
			switch {
			case item.IsNew():
				fresh++
			case item.IsDue(now):
				due++
			}
		}
		fmt.Printf("Topic %q: %d due, %d new, %d total\n", topic.Name, due, fresh, len(items))
		return nil
	},
}

func promptYesNo(reader *bufio.Reader, prompt string) bool {
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

func promptConfidence(reader *bufio.Reader) int {
	for {
		fmt.Print("How confident were you? [1-5] ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 3
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= 5 {
			return n
		}
	}
}

func printQuizSummary(ctx context.Context, summary *quiz.Summary, s *store.Store) {
	fmt.Println("\n── Session summary ──")
	fmt.Printf("Answered:  %d\n", summary.Total)
	fmt.Printf("Correct:   %d (%.0f%%)\n", summary.Correct, summary.Accuracy*100)
	fmt.Printf("Elapsed:   %d min\n", summary.ElapsedMinutes)
	if len(summary.Topics) > 0 {
		names := make([]string, 0, len(summary.Topics))
		for _, id := range summary.Topics {
			if t, err := s.Topics().Get(ctx, id); err == nil {
				names = append(names, t.Name)
			} else {
				names = append(names, id)
			}
		}
		fmt.Printf("Topics:    %s\n", strings.Join(names, ", "))
	}
}

func init() {
	quizCmd.Flags().String("mode", "mixed", "Session mode: daily_review, new_material or mixed")
	quizCmd.Flags().Int("limit", 10, "Maximum questions per session")

	quizCmd.AddCommand(quizDueCmd)
}
