package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/store"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage study topics",
}

var topicAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetString("desc")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if _, err := s.Topics().GetByName(ctx, args[0]); err == nil {
			return fmt.Errorf("topic %q already exists", args[0])
		}

		t := &store.Topic{
			ID:          uuid.NewString(),
			Name:        args[0],
			Description: desc,
			CreatedAt:   time.Now(),
		}
		if err := s.Topics().Create(ctx, t); err != nil {
			return err
		}
		fmt.Printf("Added topic %q (%s)\n", t.Name, t.ID)
		return nil
	},
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		topics, err := s.Topics().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Println("No topics yet. Add one with: mentor topic add <name>")
			return nil
		}

		fmt.Printf("%-36s  %-25s  %s\n", "ID", "Name", "Description")
		fmt.Println(strings.Repeat("─", 90))
		for _, t := range topics {
			desc := t.Description
			if len(desc) > 40 {
				desc = desc[:37] + "..."
			}
			fmt.Printf("%-36s  %-25s  %s\n", t.ID, t.Name, desc)
		}
		fmt.Printf("\n%d topics\n", len(topics))
		return nil
	},
}

var topicRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a topic and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		t, err := s.Topics().GetByName(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("topic %q not found", args[0])
		}
		if err != nil {
			return err
		}
		if err := s.Topics().Delete(ctx, t.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted topic %q\n", t.Name)
		return nil
	},
}

func init() {
	topicAddCmd.Flags().String("desc", "", "Topic description")

	topicCmd.AddCommand(topicAddCmd)
	topicCmd.AddCommand(topicListCmd)
	topicCmd.AddCommand(topicRmCmd)
}

// topicByName resolves a topic argument, accepting either a name or an ID.
func topicByName(cmd *cobra.Command, s *store.Store, arg string) (*store.Topic, error) {
	ctx := cmd.Context()
	t, err := s.Topics().GetByName(ctx, arg)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	t, err = s.Topics().Get(ctx, arg)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("topic %q not found", arg)
	}
	return t, err
}
