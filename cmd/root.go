package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arlab",
	Short: "Guided AR science lessons",
	Long: "ARLab: guided physics, chemistry and biology lessons with step tracking,\n" +
		"bookmarks and quizzes. Runs as a terminal app, a CLI or an HTTP service.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, false)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (overrides ARLAB_CONFIG)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ARLAB_DB)")
	rootCmd.PersistentFlags().String("user", "", "Learner id progress is recorded under (overrides ARLAB_USER)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(versionCmd)
}
