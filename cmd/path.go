package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/conceptgraph"
	"github.com/asengupta/mentor/internal/path"
	"github.com/asengupta/mentor/internal/store"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Plan and track a learning path",
}

var pathBuildCmd = &cobra.Command{
	Use:   "build <topic>",
	Short: "Build (or rebuild) the learning path for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		topic, graph, err := topicGraph(cmd, s, args[0])
		if err != nil {
			return err
		}

		planner := path.NewPlanner(graph)
		plan, err := planner.BuildPath(topic.ID)
		if err != nil {
			return err
		}
		if err := s.Paths().Save(ctx, &store.LearningPath{
			ID:         uuid.NewString(),
			TopicID:    topic.ID,
			ConceptIDs: plan.ConceptIDs,
			CreatedAt:  time.Now(),
		}); err != nil {
			return err
		}

		fmt.Printf("Learning path for %q (%.1f hours):\n\n", topic.Name, plan.EstimatedHours)
		milestoneAt := make(map[string]int, len(plan.Milestones))
		for _, m := range plan.Milestones {
			milestoneAt[m.ConceptID] = m.Percentage
		}
		for i, id := range plan.ConceptIDs {
			c, err := graph.Get(id)
			if err != nil {
				return err
			}
			mark := ""
			if pct, ok := milestoneAt[id]; ok {
				mark = fmt.Sprintf("  ← %d%% milestone", pct)
			}
			fmt.Printf("%2d. %s (difficulty %d)%s\n", i+1, c.Name, c.DifficultyLevel, mark)
		}
		return nil
	},
}

var pathNextCmd = &cobra.Command{
	Use:   "next <topic>",
	Short: "Show the next concept to study",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		topic, graph, err := topicGraph(cmd, s, args[0])
		if err != nil {
			return err
		}
		plan, planner, err := loadPlan(cmd, s, topic, graph)
		if err != nil {
			return err
		}

		next, err := planner.NextConcept(plan)
		if err != nil {
			return err
		}
		if next == nil {
			fmt.Printf("Every concept in %q is mastered. Nothing left on the path!\n", topic.Name)
			return nil
		}
		fmt.Printf("Next up: %s (difficulty %d, ~%d min)\n", next.Name, next.DifficultyLevel, next.EstimatedMins)
		if next.Description != "" {
			fmt.Println(next.Description)
		}
		fmt.Printf("\nStart with: mentor tutor %s %q\n", topic.Name, next.Name)
		return nil
	},
}

var pathProgressCmd = &cobra.Command{
	Use:   "progress <topic>",
	Short: "Show progress, review suggestions and knowledge gaps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		topic, graph, err := topicGraph(cmd, s, args[0])
		if err != nil {
			return err
		}
		plan, planner, err := loadPlan(cmd, s, topic, graph)
		if err != nil {
			return err
		}

		pct := planner.ProgressPercentage(plan)
		fmt.Printf("Progress on %q: %.0f%%\n", topic.Name, pct)

		suggestions := planner.SuggestReviewConcepts(3, time.Now())
		if len(suggestions) > 0 {
			fmt.Println("\nWorth reviewing:")
			for _, sug := range suggestions {
				name := sug.ConceptID
				if c, err := graph.Get(sug.ConceptID); err == nil {
					name = c.Name
				}
				fmt.Printf("  - %s: %s\n", name, sug.Reason)
			}
		}

		gaps := planner.IdentifyKnowledgeGaps()
		if len(gaps) > 0 {
			fmt.Println("\nKnowledge gaps:")
			for _, g := range gaps {
				name := g.ConceptID
				if c, err := graph.Get(g.ConceptID); err == nil {
					name = c.Name
				}
				switch g.Type {
				case path.GapWeakFoundation:
					weak := make([]string, 0, len(g.WeakPrerequisites))
					for _, id := range g.WeakPrerequisites {
						if c, err := graph.Get(id); err == nil {
							weak = append(weak, c.Name)
						}
					}
					fmt.Printf("  - %s rests on shaky ground: %s\n", name, strings.Join(weak, ", "))
				case path.GapNeedsApplication:
					fmt.Printf("  - %s is understood but never applied\n", name)
				}
			}
		}
		return nil
	},
}

// topicGraph resolves a topic argument and loads its concept graph.
func topicGraph(cmd *cobra.Command, s *store.Store, arg string) (*store.Topic, *conceptgraph.Graph, error) {
	topic, err := topicByName(cmd, s, arg)
	if err != nil {
		return nil, nil, err
	}
	graph, err := s.Concepts().LoadGraph(cmd.Context(), topic.ID)
	if err != nil {
		return nil, nil, err
	}
	return topic, graph, nil
}

// loadPlan fetches the stored path for a topic, building one on the fly
// when none has been saved yet.
func loadPlan(cmd *cobra.Command, s *store.Store, topic *store.Topic, graph *conceptgraph.Graph) (*path.Path, *path.Planner, error) {
	planner := path.NewPlanner(graph)

	stored, err := s.Paths().GetByTopic(cmd.Context(), topic.ID)
	if errors.Is(err, store.ErrNotFound) {
		plan, err := planner.BuildPath(topic.ID)
		return plan, planner, err
	}
	if err != nil {
		return nil, nil, err
	}

	plan, err := planner.BuildPath(topic.ID)
	if err != nil {
		return nil, nil, err
	}
	plan.ConceptIDs = stored.ConceptIDs
	return plan, planner, nil
}

func init() {
	pathCmd.AddCommand(pathBuildCmd)
	pathCmd.AddCommand(pathNextCmd)
	pathCmd.AddCommand(pathProgressCmd)
}
