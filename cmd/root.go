package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/llm"
	"github.com/asengupta/mentor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Adaptive learning coach for the terminal",
	Long: "Mentor — spaced repetition quizzes, concept maps and Socratic tutoring\n" +
		"sessions that adapt to how well you actually understand things.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MENTOR_DB env var)")

	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(conceptCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then MENTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database for one command invocation.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newProvider builds the LLM provider from the environment, or returns
// nil when no provider is configured. Every feature that uses it has an
// offline fallback, so a nil provider only degrades, never blocks.
func newProvider(ctx context.Context, s *store.Store) llm.Provider {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			fmt.Fprintln(os.Stderr, "No LLM provider configured; using offline fallbacks.")
			return nil
		}
		cfg = discovered
	}

	provider, err := llm.NewProvider(ctx, cfg, s.Events())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		fmt.Fprintln(os.Stderr, "Using offline fallbacks.")
		return nil
	}
	return provider
}
