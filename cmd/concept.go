package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/conceptgraph"
)

var conceptCmd = &cobra.Command{
	Use:   "concept",
	Short: "Manage concepts within a topic",
}

var conceptAddCmd = &cobra.Command{
	Use:   "add <topic> <name>",
	Short: "Add a concept to a topic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetString("desc")
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		mins, _ := cmd.Flags().GetInt("minutes")
		requires, _ := cmd.Flags().GetStringSlice("requires")

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

		c := conceptgraph.Concept{
			ID:              uuid.NewString(),
			TopicID:         topic.ID,
			Name:            args[1],
			Description:     desc,
			DifficultyLevel: difficulty,
			EstimatedMins:   mins,
		}

		// Resolve prerequisites by name against the loaded graph, then
		// run the edges through the graph so cycles are rejected before
		// anything touches the database.
		prereqIDs := make([]string, 0, len(requires))
		for _, name := range requires {
			prereq := conceptNamed(graph, name)
			if prereq == nil {
				return fmt.Errorf("prerequisite %q not found in topic %q", name, topic.Name)
			}
			prereqIDs = append(prereqIDs, prereq.ID)
		}
		if err := graph.AddConcept(c); err != nil {
			return err
		}
		for _, id := range prereqIDs {
			if err := graph.AddPrerequisite(c.ID, id); err != nil {
				return err
			}
		}

		if err := s.Concepts().Save(ctx, &c); err != nil {
			return err
		}
		for _, id := range prereqIDs {
			if err := s.Concepts().SavePrerequisite(ctx, c.ID, id); err != nil {
				return err
			}
		}
		fmt.Printf("Added concept %q to topic %q (%s)\n", c.Name, topic.Name, c.ID)
		return nil
	},
}

var conceptListCmd = &cobra.Command{
	Use:   "list <topic>",
	Short: "List a topic's concepts in learning order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		topic, err := topicByName(cmd, s, args[0])
		if err != nil {
			return err
		}
		graph, err := s.Concepts().LoadGraph(cmd.Context(), topic.ID)
		if err != nil {
			return err
		}
		ordered := graph.TopologicalOrder()
		if len(ordered) == 0 {
			fmt.Printf("No concepts in topic %q yet.\n", topic.Name)
			return nil
		}

		fmt.Printf("%-25s  %-4s  %-8s  %-10s  %s\n", "Name", "Diff", "Mastery", "Bloom", "Status")
		fmt.Println(strings.Repeat("─", 70))
		for _, c := range ordered {
			unlocked, err := graph.IsUnlocked(c.ID)
			if err != nil {
				return err
			}
			status := "locked"
			switch {
			case c.MasteryScore >= 0.8:
				status = "mastered"
			case unlocked:
				status = "unlocked"
			}
			fmt.Printf("%-25s  %-4d  %-8s  %-10s  %s\n",
				c.Name, c.DifficultyLevel,
				fmt.Sprintf("%.0f%%", c.MasteryScore*100),
				c.CurrentBloomLevel, status)
		}
		fmt.Printf("\n%d concepts\n", len(ordered))
		return nil
	},
}

var conceptShowCmd = &cobra.Command{
	Use:   "show <topic> <name>",
	Short: "Show a concept's learning record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		topic, err := topicByName(cmd, s, args[0])
		if err != nil {
			return err
		}
		graph, err := s.Concepts().LoadGraph(cmd.Context(), topic.ID)
		if err != nil {
			return err
		}
		c := conceptNamed(graph, args[1])
		if c == nil {
			return fmt.Errorf("concept %q not found in topic %q", args[1], topic.Name)
		}

		fmt.Printf("Concept:      %s\n", c.Name)
		if c.Description != "" {
			fmt.Printf("Description:  %s\n", c.Description)
		}
		fmt.Printf("Difficulty:   %d/5\n", c.DifficultyLevel)
		fmt.Printf("Mastery:      %.0f%%\n", c.MasteryScore*100)
		fmt.Printf("Bloom level:  %s\n", c.CurrentBloomLevel)
		fmt.Printf("Practiced:    %d times\n", c.TimesPracticed)
		if c.LastPracticed != nil {
			fmt.Printf("Last session: %s\n", c.LastPracticed.Format("2006-01-02"))
		}
		if len(c.Prerequisites) > 0 {
			names := make([]string, 0, len(c.Prerequisites))
			for _, id := range c.Prerequisites {
				if p, err := graph.Get(id); err == nil {
					names = append(names, p.Name)
				}
			}
			fmt.Printf("Requires:     %s\n", strings.Join(names, ", "))
		}
		if len(c.Misconceptions) > 0 {
			fmt.Printf("Watch out:    %s\n", strings.Join(c.Misconceptions, ", "))
		}
		return nil
	},
}

func init() {
	conceptAddCmd.Flags().String("desc", "", "Concept description")
	conceptAddCmd.Flags().Int("difficulty", 3, "Difficulty on a 1-5 scale")
	conceptAddCmd.Flags().Int("minutes", 30, "Estimated study minutes")
	conceptAddCmd.Flags().StringSlice("requires", nil, "Prerequisite concept names")

	conceptCmd.AddCommand(conceptAddCmd)
	conceptCmd.AddCommand(conceptListCmd)
	conceptCmd.AddCommand(conceptShowCmd)
}

// conceptNamed finds a concept by name or ID within a loaded graph.
func conceptNamed(g *conceptgraph.Graph, arg string) *conceptgraph.Concept {
	if c, err := g.Get(arg); err == nil {
		return c
	}
	for _, c := range g.Concepts() {
		if strings.EqualFold(c.Name, arg) {
			return c
		}
	}
	return nil
}
